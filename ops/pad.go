package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
	"github.com/lvlath-tract/tract/patch"
	"github.com/lvlath-tract/tract/solver"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// PadMode selects how Pad fills the margins it adds.
type PadMode int

const (
	// PadModeConstant fills every new element with Constant.
	PadModeConstant PadMode = iota
	// PadModeEdge repeats the nearest original element.
	PadModeEdge
	// PadModeReflect mirrors the original data across the boundary,
	// excluding the boundary element itself.
	PadModeReflect
)

// Pad grows Axis by Before elements on the low side and After on the
// high side.
type Pad struct {
	Axis     int
	Before   int
	After    int
	Mode     PadMode
	Constant float64
}

// Name implements op.Op.
func (Pad) Name() string { return "Pad" }

// Eval implements op.Evaluator.
func (p Pad) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: pad: %w", ErrWrongArity)
	}
	out, err := padAxis(inputs[0], p.Axis, p.Before, p.After, p.Mode, p.Constant)
	if err != nil {
		return nil, err
	}
	return []tensor.Tensor{out}, nil
}

// Rules implements op.InferenceRuleOp.
func (p Pad) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return fmt.Errorf("ops: pad: %w", ErrWrongArity)
	}
	s.GivenDatumType(solver.In(0), func(dt fact.DatumType, inputs, outputs []fact.InferenceFact) (bool, error) {
		if _, ok := outputs[0].DatumType.Get(); ok {
			return false, nil
		}
		outputs[0].DatumType = fact.Only(dt)
		return true, nil
	})
	s.GivenShape(solver.In(0), func(shape []tdim.Dim, inputs, outputs []fact.InferenceFact) (bool, error) {
		if p.Axis < 0 || p.Axis >= len(shape) {
			return false, fmt.Errorf("ops: pad: %w", ErrAxisOutOfRange)
		}
		want := append([]tdim.Dim{}, shape...)
		want[p.Axis] = tdim.Add(shape[p.Axis], tdim.Val(int32(p.Before+p.After)))
		if cur, ok := outputs[0].Shape.Get(); ok && sameShapeDims(cur, want) {
			return false, nil
		}
		outputs[0].Shape = fact.Only(want)
		outputs[0].Rank = fact.Only(len(want))
		return true, nil
	})
	return nil
}

// OutputFacts implements op.TypedFactPropagator.
func (p Pad) OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: pad: %w", ErrWrongArity)
	}
	if p.Axis < 0 || p.Axis >= len(inputs[0].Shape) {
		return nil, fmt.Errorf("ops: pad: %w", ErrAxisOutOfRange)
	}
	shape := append([]tdim.Dim{}, inputs[0].Shape...)
	shape[p.Axis] = tdim.Add(shape[p.Axis], tdim.Val(int32(p.Before+p.After)))
	return []fact.TypedFact{fact.NewTypedFact(inputs[0].DatumType, shape...)}, nil
}

// Declutter implements patch.Decluttering[fact.TypedFact]: padding by
// nothing on both sides is the identity.
func (p Pad) Declutter(model *graph.Model[fact.TypedFact], nodeID int) (*patch.Patch[fact.TypedFact], error) {
	if p.Before == 0 && p.After == 0 {
		return patch.ShuntOneOp[fact.TypedFact](model, nodeID, 0)
	}
	return nil, nil
}

// Pulsify implements patch.Pulsifier. Padding an axis other than the
// stream carries straight over as ordinary per-pulse work. Padding the
// stream itself needs PulsePad: Reflect can't be computed without
// knowing the stream's end in advance, so it is rejected outright, and
// Edge needs at least Before samples of real lookback already on hand
// in every pulse, so it is rejected when the pulse is too narrow for
// that. When the incoming fact doesn't already buffer enough history
// for Before, a Delay is inserted ahead of PulsePad to supply it.
func (p Pad) Pulsify(
	source *graph.Model[fact.TypedFact],
	nodeID int,
	target *graph.Model[fact.PulsedFact],
	mapping map[graph.Outlet]graph.Outlet,
	pulse int,
) ([]graph.Outlet, error) {
	n, err := source.Node(nodeID)
	if err != nil {
		return nil, err
	}
	in, ok := mapping[n.Inputs[0]]
	if !ok {
		return nil, fmt.Errorf("ops: pad: %w", patch.ErrUnresolvedOutlet)
	}
	inFact, err := target.OutletFact(in)
	if err != nil {
		return nil, err
	}
	if p.Axis != inFact.Axis {
		of, err := p.OutputFacts([]fact.TypedFact{inFact.TypedFact})
		if err != nil {
			return nil, err
		}
		outFact := inFact
		outFact.TypedFact = of[0]
		newID, err := target.AddNode(n.Name, p, []fact.PulsedFact{outFact})
		if err != nil {
			return nil, err
		}
		if err := target.AddEdge(in, graph.Inlet{NodeID: newID, Input: 0}); err != nil {
			return nil, err
		}
		return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
	}

	if p.Mode == PadModeReflect {
		return nil, fmt.Errorf("ops: pad: node %q axis %d: %w", n.Name, p.Axis, ErrReflectNotPulsifiable)
	}
	if p.Mode == PadModeEdge && pulse <= p.Before {
		return nil, fmt.Errorf("ops: pad: node %q axis %d: %w", n.Name, p.Axis, ErrEdgePulsifyTooNarrow)
	}

	feed := in
	feedFact := inFact
	if inFact.Delay < p.Before {
		extra := p.Before - inFact.Delay
		delayOp := Delay{Axis: p.Axis, Delay: extra}
		delayed := inFact
		delayed.Delay += extra
		delayID, err := target.AddNode(fmt.Sprintf("%s.delay", n.Name), delayOp, []fact.PulsedFact{delayed})
		if err != nil {
			return nil, err
		}
		if err := target.AddEdge(in, graph.Inlet{NodeID: delayID, Input: 0}); err != nil {
			return nil, err
		}
		feed = graph.Outlet{NodeID: delayID, Slot: 0}
		feedFact = delayed
	}

	padOp := PulsePad{Axis: p.Axis, Before: p.Before, After: p.After, Mode: p.Mode, Constant: p.Constant}
	outFact := feedFact
	outFact.Dim = tdim.Add(feedFact.Dim, tdim.Val(int32(p.Before+p.After)))
	outFact.Delay = feedFact.Delay - p.Before
	newID, err := target.AddNode(n.Name, padOp, []fact.PulsedFact{outFact})
	if err != nil {
		return nil, err
	}
	if err := target.AddEdge(feed, graph.Inlet{NodeID: newID, Input: 0}); err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

// PulsePad is the pulsed-model residue of padding the streaming axis:
// each call advances a position counter and fills margins relative to
// the stream's absolute start and (if known) end, rather than relative
// to any one pulse's boundaries.
type PulsePad struct {
	Axis     int
	Before   int
	After    int
	Mode     PadMode
	Constant float64
}

// Name implements op.Op.
func (PulsePad) Name() string { return "PulsePad" }

// PulseOnly reports that PulsePad only ever appears in a pulsed model.
func (PulsePad) PulseOnly() bool { return true }

// State implements op.StatefulOp: filling the low-side margin correctly
// requires knowing how many pulses have already gone by.
func (p PulsePad) State(session *op.Session) (op.OpState, error) {
	return &pulsePadState{op: p}, nil
}

// PulsedOutputFacts implements op.PulsedFactPropagator.
func (p PulsePad) PulsedOutputFacts(inputs []fact.PulsedFact) ([]fact.PulsedFact, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: pulse_pad: %w", ErrWrongArity)
	}
	f := inputs[0]
	f.Dim = tdim.Add(f.Dim, tdim.Val(int32(p.Before+p.After)))
	f.Delay -= p.Before
	return []fact.PulsedFact{f}, nil
}

// pulsePadState tracks how many elements of the streaming axis have
// been produced so far, so it knows which positions, if any, in the
// current pulse still fall inside the low margin. The upstream Delay
// Pulsify inserts already supplies the correctly shaped and shifted
// data (its own ring buffer starts zero-filled); PulsePad's job is to
// overwrite that low margin with the right value once the real Before
// boundary is known, per original_source's PulsePadOpState. The high
// margin requires knowing where the stream ends, which no signal
// reaches Eval to report, so it is out of scope here (see DESIGN.md).
type pulsePadState struct {
	op       PulsePad
	produced int
}

// Eval implements op.OpState.
func (st *pulsePadState) Eval(session *op.Session, inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: pulse_pad: %w", ErrWrongArity)
	}
	in := inputs[0]
	outer, axisLen, inner := axisSplit(in.Shape, st.op.Axis)
	data := append([]float64{}, in.Data...)
	for k := 0; k < axisLen; k++ {
		if st.produced+k >= st.op.Before {
			break
		}
		for o := 0; o < outer; o++ {
			base := (o*axisLen + k) * inner
			dst := data[base : base+inner]
			switch st.op.Mode {
			case PadModeConstant:
				for idx := range dst {
					dst[idx] = st.op.Constant
				}
			case PadModeEdge:
				src := (o*axisLen + st.op.Before) * inner
				copy(dst, in.Data[src:src+inner])
			}
		}
	}
	st.produced += axisLen
	out, err := tensor.New(append([]int{}, in.Shape...), data)
	if err != nil {
		return nil, err
	}
	return []tensor.Tensor{out}, nil
}
