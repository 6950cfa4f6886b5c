// Package graph implements the typed node/outlet container every lowering
// stage shares: Model is parameterized over a fact.Fact flavor, so
// Model[fact.InferenceFact], Model[fact.TypedFact], and
// Model[fact.PulsedFact] are the Inference, Typed/Normalized, and Pulsed
// graphs spec.md §3 describes, all built and queried through the same
// AddNode/AddEdge/EvalOrder surface.
//
// A Model owns dense, stable integer node IDs assigned at insertion.
// Edges are recorded on the producer's outlet as an ordered successor
// list and mirrored on the consumer's input list; every mutating method
// validates its arguments completely before writing any state, so a
// failed call never leaves the model partially wired.
package graph
