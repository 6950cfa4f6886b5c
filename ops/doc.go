// Package ops is a small library of concrete operators built on top of
// op, patch, fact, and graph: Dummy, Const, Source, Add, Slice,
// Downsample, Pad/PulsePad, Concat, and Delay. It exists to give every
// capability interface declared in op and patch a real, testable tenant
// (spec.md §4.C's "evaluation, fact propagation, invariants, declutter,
// codegen, pulsify"), and to exercise pipeline end to end on models that
// do real, if small, numeric work.
//
// None of these ops are meant to be exhaustive or fast; tensor itself
// stops at a flat float64 payload (see tensor.Tensor's doc comment), so
// Eval here is a reference implementation for constant-folding and
// small-graph testing, not a kernel library.
package ops
