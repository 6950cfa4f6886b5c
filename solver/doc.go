// Package solver implements the small inference-time constraint system
// spec.md §4.C describes: a System accumulates Equals and Given rules
// over an op's input/output fact.InferenceFact slices, and Propagate
// runs every rule once, reporting whether any fact changed so the
// caller (pipeline's analyse stage) can iterate to a fixpoint.
//
// Rules never observe a host model — only the input/output fact slices
// passed to Propagate — which is what keeps this package free of any
// dependency on graph.
package solver
