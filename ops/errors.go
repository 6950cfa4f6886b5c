package ops

import "errors"

// Sentinel errors for the ops package. Callers branch with errors.Is;
// messages exist for humans, not control flow.
var (
	// ErrDummyEval is returned by Dummy.Eval: Dummy only stands in for
	// nodes a patch has obliterated (spec.md §4.D), whose consumers were
	// shunted elsewhere. Reaching it at eval time means a patch was
	// applied incorrectly.
	ErrDummyEval = errors.New("ops: eval called on a Dummy op, this is a bug")

	// ErrSourceEval is returned by Source.Eval: a source's value comes
	// from outside the model (the caller's input), never from Eval.
	ErrSourceEval = errors.New("ops: eval called on a Source op, feed it as a model input instead")

	// ErrWrongArity is returned when an op is evaluated or typed with
	// the wrong number of inputs or outputs for what it implements.
	ErrWrongArity = errors.New("ops: wrong number of inputs or outputs")

	// ErrSymbolicBound is returned when an op needs a fully concrete
	// integer (e.g. Slice.Start/End, Pad's padding widths) but the
	// symbolic dimension involved still carries an unbound symbol.
	ErrSymbolicBound = errors.New("ops: dimension is not a concrete integer")

	// ErrAxisOutOfRange is returned when an op's configured axis does
	// not address a valid axis of its input shape.
	ErrAxisOutOfRange = errors.New("ops: axis out of range")

	// ErrNonStreamAxis is returned by Concat.Pulsify when the op's axis
	// is the input's pulsed streaming axis: Concat pulsifies only along
	// the other axes.
	ErrNonStreamAxis = errors.New("ops: op cannot be pulsified along the streaming axis")

	// ErrReflectNotPulsifiable is returned by Pad.Pulsify for
	// PadModeReflect: mirroring needs lookahead across the whole
	// stream, which a bounded pulse buffer cannot provide.
	ErrReflectNotPulsifiable = errors.New("ops: reflect padding mode cannot be pulsified")

	// ErrEdgePulsifyTooNarrow is returned by Pad.Pulsify for
	// PadModeEdge when the pulse size is not strictly larger than the
	// left padding width, mirroring original_source's own requirement.
	ErrEdgePulsifyTooNarrow = errors.New("ops: edge padding mode needs a pulse strictly bigger than the left padding")

	// ErrStrideNotPulseMultiple is returned by Downsample.Pulsify when
	// the pulse size is not a multiple of the stride: a pulse could
	// then straddle a stride boundary inconsistently between calls.
	ErrStrideNotPulseMultiple = errors.New("ops: downsample pulsify requires pulse to be a multiple of stride")

	// ErrAxisMismatch is returned by Add.Pulsify when its two inputs
	// disagree on streaming axis, pulse size, or delay: nothing
	// upstream aligned them, so the elementwise op cannot be wired.
	ErrAxisMismatch = errors.New("ops: inputs disagree on pulse axis, size, or delay")
)
