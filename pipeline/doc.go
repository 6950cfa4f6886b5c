// Package pipeline drives a model through the staged lowering spec.md
// §4.E describes: load → analyse → incorporate → into_typed → declutter
// → into_normalized → pulsify → pulse_declutter → codegen. Each stage is
// a pure function from one graph.Model flavor to the next (or to itself,
// for the fixpoint stages); Pipeline.Run sequences them, honoring a
// stop-at stage and the other override knobs spec.md §6 lists.
//
// incorporate, declutter, and pulse_declutter all share one mechanism:
// repeatedly ask every node in eval_order whether it has a patch.Patch
// to offer (via patch.Decluttering), apply the first one found, and
// restart the pass, until a full pass finds nothing left to do. They
// differ only in which fact flavor they run over.
package pipeline
