package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/op"
	"github.com/lvlath-tract/tract/tensor"
)

// Delay buffers Delay+Overlap frames of history along Axis before
// letting data through, so that a downstream op sees samples it would
// otherwise have missed at stream start. It only ever appears in a
// pulsed model; Pulsify on Pad inserts it when PulsePad needs more
// lookback than the incoming fact's Delay already provides.
type Delay struct {
	Axis    int
	Delay   int
	Overlap int
}

// Name implements op.Op.
func (Delay) Name() string { return "Delay" }

// PulseOnly reports that Delay only ever appears in a pulsed model;
// IntoNormalized's default validator rejects it before then.
func (Delay) PulseOnly() bool { return true }

// State implements op.StatefulOp: each run gets its own ring buffer,
// since frames from one session must never leak into another.
func (d Delay) State(session *op.Session) (op.OpState, error) {
	return &delayState{axis: d.Axis, delay: d.Delay, overlap: d.Overlap}, nil
}

// Cost implements op.Coster: a Delay's only resource cost is the ring
// buffer it holds onto between pulses, sized at delay+overlap frames
// times every other axis's extent.
func (d Delay) Cost(inputs []tensor.Tensor) (float64, error) {
	if len(inputs) != 1 {
		return 0, fmt.Errorf("ops: delay: %w", ErrWrongArity)
	}
	buffered := d.Delay + d.Overlap
	outer, _, inner := axisSplit(inputs[0].Shape, d.Axis)
	return float64(outer * buffered * inner), nil
}

// PulsedOutputFacts implements op.PulsedFactPropagator: buffering does
// not change a pulse's shape, only how far its samples lag behind the
// stream's true position.
func (d Delay) PulsedOutputFacts(inputs []fact.PulsedFact) ([]fact.PulsedFact, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: delay: %w", ErrWrongArity)
	}
	f := inputs[0]
	f.Delay += d.Delay
	return []fact.PulsedFact{f}, nil
}

// delayState is the per-session ring buffer backing Delay.
type delayState struct {
	axis    int
	delay   int
	overlap int
	buffer  *tensor.Tensor
}

// Eval implements op.OpState. Each call appends the new pulse to
// whatever history is buffered, emits the oldest pulseLen frames, and
// keeps the newest buffered frames for next time.
func (st *delayState) Eval(session *op.Session, inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: delay: %w", ErrWrongArity)
	}
	in := inputs[0]
	buffered := st.delay + st.overlap
	if buffered == 0 {
		return inputs, nil
	}
	if st.buffer == nil {
		zeroShape := append([]int{}, in.Shape...)
		zeroShape[st.axis] = buffered
		count := 1
		for _, d := range zeroShape {
			count *= d
		}
		zt, err := tensor.New(zeroShape, make([]float64, count))
		if err != nil {
			return nil, err
		}
		st.buffer = &zt
	}
	combined, err := concatAxis(st.axis, []tensor.Tensor{*st.buffer, in})
	if err != nil {
		return nil, err
	}
	pulseLen := in.Shape[st.axis]
	out, err := sliceAxis(combined, st.axis, 0, pulseLen)
	if err != nil {
		return nil, err
	}
	newBuf, err := sliceAxis(combined, st.axis, pulseLen, pulseLen+buffered)
	if err != nil {
		return nil, err
	}
	st.buffer = &newBuf
	return []tensor.Tensor{out}, nil
}
