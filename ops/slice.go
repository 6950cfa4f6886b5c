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

// Slice extracts the half-open range [Start, End) along Axis, leaving
// every other axis untouched.
type Slice struct {
	Axis       int
	Start, End tdim.Dim
}

// Name implements op.Op.
func (Slice) Name() string { return "Slice" }

// Eval implements op.Evaluator.
func (sl Slice) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: slice: %w", ErrWrongArity)
	}
	start, err := tdim.ToInteger(sl.Start)
	if err != nil {
		return nil, fmt.Errorf("ops: slice: start: %w", ErrSymbolicBound)
	}
	end, err := tdim.ToInteger(sl.End)
	if err != nil {
		return nil, fmt.Errorf("ops: slice: end: %w", ErrSymbolicBound)
	}
	out, err := sliceAxis(inputs[0], sl.Axis, int(start), int(end))
	if err != nil {
		return nil, err
	}
	return []tensor.Tensor{out}, nil
}

// Rules implements op.InferenceRuleOp: the output's datum type mirrors
// the input's, and its shape is the input's shape with Axis narrowed to
// End-Start.
func (sl Slice) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return fmt.Errorf("ops: slice: %w", ErrWrongArity)
	}
	s.GivenDatumType(solver.In(0), func(dt fact.DatumType, inputs, outputs []fact.InferenceFact) (bool, error) {
		if _, ok := outputs[0].DatumType.Get(); ok {
			return false, nil
		}
		outputs[0].DatumType = fact.Only(dt)
		return true, nil
	})
	s.GivenShape(solver.In(0), func(shape []tdim.Dim, inputs, outputs []fact.InferenceFact) (bool, error) {
		if sl.Axis < 0 || sl.Axis >= len(shape) {
			return false, fmt.Errorf("ops: slice: %w", ErrAxisOutOfRange)
		}
		want := append([]tdim.Dim{}, shape...)
		want[sl.Axis] = tdim.Sub(sl.End, sl.Start)
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
func (sl Slice) OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: slice: %w", ErrWrongArity)
	}
	if sl.Axis < 0 || sl.Axis >= len(inputs[0].Shape) {
		return nil, fmt.Errorf("ops: slice: %w", ErrAxisOutOfRange)
	}
	shape := append([]tdim.Dim{}, inputs[0].Shape...)
	shape[sl.Axis] = tdim.Sub(sl.End, sl.Start)
	return []fact.TypedFact{fact.NewTypedFact(inputs[0].DatumType, shape...)}, nil
}

// Declutter implements patch.Decluttering[fact.TypedFact]: a full-range
// slice is the identity, and a slice of a Concat along its own axis can
// be rewired directly onto the one branch it actually draws from.
func (sl Slice) Declutter(model *graph.Model[fact.TypedFact], nodeID int) (*patch.Patch[fact.TypedFact], error) {
	n, err := model.Node(nodeID)
	if err != nil {
		return nil, err
	}
	inFact, err := model.OutletFact(n.Inputs[0])
	if err != nil {
		return nil, err
	}
	if sl.Axis < 0 || sl.Axis >= len(inFact.Shape) {
		return nil, fmt.Errorf("ops: slice: %w", ErrAxisOutOfRange)
	}
	if sl.Start.Equal(tdim.Val(0)) && sl.End.Equal(inFact.Shape[sl.Axis]) {
		return patch.ShuntOneOp[fact.TypedFact](model, nodeID, 0)
	}

	start, errS := tdim.ToInteger(sl.Start)
	end, errE := tdim.ToInteger(sl.End)
	if errS != nil || errE != nil {
		return nil, nil
	}
	producer, err := model.Node(n.Inputs[0].NodeID)
	if err != nil {
		return nil, err
	}
	concatOp, ok := producer.Op.(Concat)
	if !ok || concatOp.Axis != sl.Axis {
		return nil, nil
	}
	offset := int32(0)
	for _, branch := range producer.Inputs {
		bf, err := model.OutletFact(branch)
		if err != nil {
			return nil, err
		}
		length, err := tdim.ToInteger(bf.Shape[sl.Axis])
		if err != nil {
			return nil, nil
		}
		if start >= offset && end <= offset+length {
			p := patch.New[fact.TypedFact](fmt.Sprintf("slice_through_concat(%s)", n.Name))
			tap, err := p.TapModel(model, branch)
			if err != nil {
				return nil, err
			}
			narrowed := Slice{Axis: sl.Axis, Start: tdim.Val(start - offset), End: tdim.Val(end - offset)}
			outFacts, err := narrowed.OutputFacts([]fact.TypedFact{bf})
			if err != nil {
				return nil, err
			}
			out, err := p.WireNode(n.Name, narrowed, outFacts, []graph.Outlet{tap})
			if err != nil {
				return nil, err
			}
			if err := p.ShuntOutside(model, graph.Outlet{NodeID: nodeID, Slot: 0}, out); err != nil {
				return nil, err
			}
			p.Obliterate(nodeID)
			return p, nil
		}
		offset += length
	}
	return nil, nil
}

// Pulsify implements patch.Pulsifier. Slicing along the streaming axis
// becomes bookkeeping only (PulsedAxisSlice, whose Eval is the
// identity): the absolute position is already tracked via delay, so
// narrowing [Start,End) just shifts the window. Slicing any other axis
// is ordinary, materialized work every pulse, so the node carries over
// unchanged.
func (sl Slice) Pulsify(
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
		return nil, fmt.Errorf("ops: slice: %w", patch.ErrUnresolvedOutlet)
	}
	inFact, err := target.OutletFact(in)
	if err != nil {
		return nil, err
	}

	var newOp op.Op
	outFact := inFact
	if sl.Axis == inFact.Axis {
		skip, err := tdim.ToInteger(sl.Start)
		if err != nil {
			return nil, fmt.Errorf("ops: slice: %w", ErrSymbolicBound)
		}
		outFact.Delay += int(skip)
		outFact.Dim = tdim.Sub(sl.End, sl.Start)
		newOp = PulsedAxisSlice{Axis: sl.Axis, Skip: int(skip), Take: outFact.Dim}
	} else {
		of, err := sl.OutputFacts([]fact.TypedFact{inFact.TypedFact})
		if err != nil {
			return nil, err
		}
		outFact.TypedFact = of[0]
		newOp = sl
	}

	newID, err := target.AddNode(n.Name, newOp, []fact.PulsedFact{outFact})
	if err != nil {
		return nil, err
	}
	if err := target.AddEdge(in, graph.Inlet{NodeID: newID, Input: 0}); err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

// PulsedAxisSlice is the pulsed-model residue of slicing along the
// streaming axis: its Eval is the identity, since the window it
// represents is already implied by its fact's Delay and Dim.
type PulsedAxisSlice struct {
	Axis int
	Skip int
	Take tdim.Dim
}

// Name implements op.Op.
func (PulsedAxisSlice) Name() string { return "PulsedAxisSlice" }

// Eval implements op.Evaluator.
func (PulsedAxisSlice) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: pulsed_axis_slice: %w", ErrWrongArity)
	}
	return inputs, nil
}

// PulsedOutputFacts implements op.PulsedFactPropagator.
func (p PulsedAxisSlice) PulsedOutputFacts(inputs []fact.PulsedFact) ([]fact.PulsedFact, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: pulsed_axis_slice: %w", ErrWrongArity)
	}
	f := inputs[0]
	f.Delay += p.Skip
	f.Dim = p.Take
	return []fact.PulsedFact{f}, nil
}
