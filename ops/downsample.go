package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/patch"
	"github.com/lvlath-tract/tract/solver"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// Downsample keeps every Stride-th element along Axis, starting at
// Modulo, and drops the rest.
type Downsample struct {
	Axis   int
	Stride int
	Modulo int
}

// Name implements op.Op.
func (Downsample) Name() string { return "Downsample" }

// Eval implements op.Evaluator.
func (d Downsample) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: downsample: %w", ErrWrongArity)
	}
	out, err := downsampleAxis(inputs[0], d.Axis, d.Stride, d.Modulo)
	if err != nil {
		return nil, err
	}
	return []tensor.Tensor{out}, nil
}

// transformDim maps a symbolic axis length to the length that remains
// after sampling it at Stride starting from Modulo, mirroring
// original_source's Downsample::transform_dim.
func (d Downsample) transformDim(dim tdim.Dim) (tdim.Dim, error) {
	shifted := tdim.Sub(dim, tdim.Val(int32(d.Modulo)))
	out, err := tdim.DivCeil(shifted, uint32(d.Stride))
	if err != nil {
		return tdim.Dim{}, fmt.Errorf("ops: downsample: %w", err)
	}
	return out, nil
}

// Rules implements op.InferenceRuleOp.
func (d Downsample) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return fmt.Errorf("ops: downsample: %w", ErrWrongArity)
	}
	s.GivenDatumType(solver.In(0), func(dt fact.DatumType, inputs, outputs []fact.InferenceFact) (bool, error) {
		if _, ok := outputs[0].DatumType.Get(); ok {
			return false, nil
		}
		outputs[0].DatumType = fact.Only(dt)
		return true, nil
	})
	s.GivenShape(solver.In(0), func(shape []tdim.Dim, inputs, outputs []fact.InferenceFact) (bool, error) {
		if d.Axis < 0 || d.Axis >= len(shape) {
			return false, fmt.Errorf("ops: downsample: %w", ErrAxisOutOfRange)
		}
		want := append([]tdim.Dim{}, shape...)
		transformed, err := d.transformDim(shape[d.Axis])
		if err != nil {
			return false, err
		}
		want[d.Axis] = transformed
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
func (d Downsample) OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("ops: downsample: %w", ErrWrongArity)
	}
	if d.Axis < 0 || d.Axis >= len(inputs[0].Shape) {
		return nil, fmt.Errorf("ops: downsample: %w", ErrAxisOutOfRange)
	}
	shape := append([]tdim.Dim{}, inputs[0].Shape...)
	transformed, err := d.transformDim(shape[d.Axis])
	if err != nil {
		return nil, err
	}
	shape[d.Axis] = transformed
	return []fact.TypedFact{fact.NewTypedFact(inputs[0].DatumType, shape...)}, nil
}

// Declutter implements patch.Decluttering[fact.TypedFact]: Stride 1 is
// the identity. Pulling a downsample up through a preceding Slice along
// the same axis (sampling first and cropping the sampled result,
// instead of the other way round) is the one commute this port attempts; original_source also
// pulls downsample over AxisOp, ConvUnary, and Scan, which this port
// does not reach.
func (d Downsample) Declutter(model *graph.Model[fact.TypedFact], nodeID int) (*patch.Patch[fact.TypedFact], error) {
	n, err := model.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if d.Stride == 1 {
		return patch.ShuntOneOp[fact.TypedFact](model, nodeID, 0)
	}
	producer, err := model.Node(n.Inputs[0].NodeID)
	if err != nil {
		return nil, err
	}
	sl, ok := producer.Op.(Slice)
	if !ok || sl.Axis != d.Axis {
		return nil, nil
	}
	start, err := tdim.ToInteger(sl.Start)
	if err != nil {
		return nil, nil
	}
	p := patch.New[fact.TypedFact](fmt.Sprintf("downsample_over_slice(%s)", n.Name))
	tap, err := p.TapModel(model, producer.Inputs[0])
	if err != nil {
		return nil, err
	}
	newModulo := (d.Modulo + int(start)) % d.Stride
	pushedDown := Downsample{Axis: d.Axis, Stride: d.Stride, Modulo: newModulo}
	tapFact, err := model.OutletFact(producer.Inputs[0])
	if err != nil {
		return nil, err
	}
	downFacts, err := pushedDown.OutputFacts([]fact.TypedFact{tapFact})
	if err != nil {
		return nil, err
	}
	downOut, err := p.WireNode(producer.Name, pushedDown, downFacts, []graph.Outlet{tap})
	if err != nil {
		return nil, err
	}
	newStart, err := pushedDown.transformDim(tdim.Val(start))
	if err != nil {
		return nil, err
	}
	newEnd, err := pushedDown.transformDim(sl.End)
	if err != nil {
		return nil, err
	}
	newSlice := Slice{Axis: sl.Axis, Start: newStart, End: newEnd}
	sliceFacts, err := newSlice.OutputFacts(downFacts)
	if err != nil {
		return nil, err
	}
	out, err := p.WireNode(n.Name, newSlice, sliceFacts, []graph.Outlet{downOut})
	if err != nil {
		return nil, err
	}
	if err := p.ShuntOutside(model, graph.Outlet{NodeID: nodeID, Slot: 0}, out); err != nil {
		return nil, err
	}
	p.Obliterate(nodeID)
	return p, nil
}

// Pulsify implements patch.Pulsifier: the pulse size must already be a
// multiple of Stride, so each output pulse is assembled entirely from
// whole input pulses.
func (d Downsample) Pulsify(
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
		return nil, fmt.Errorf("ops: downsample: %w", patch.ErrUnresolvedOutlet)
	}
	inFact, err := target.OutletFact(in)
	if err != nil {
		return nil, err
	}
	if d.Axis != inFact.Axis {
		of, err := d.OutputFacts([]fact.TypedFact{inFact.TypedFact})
		if err != nil {
			return nil, err
		}
		outFact := inFact
		outFact.TypedFact = of[0]
		newID, err := target.AddNode(n.Name, d, []fact.PulsedFact{outFact})
		if err != nil {
			return nil, err
		}
		if err := target.AddEdge(in, graph.Inlet{NodeID: newID, Input: 0}); err != nil {
			return nil, err
		}
		return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
	}
	if inFact.Pulse%d.Stride != 0 {
		return nil, fmt.Errorf("ops: downsample: %w", ErrStrideNotPulseMultiple)
	}
	transformedDim, err := d.transformDim(inFact.Dim)
	if err != nil {
		return nil, err
	}
	outFact := inFact
	outFact.Pulse = inFact.Pulse / d.Stride
	outFact.Delay = d.transformDelay(inFact.Delay)
	outFact.Dim = transformedDim
	shape := append([]tdim.Dim{}, inFact.Shape...)
	shape[d.Axis] = tdim.Val(int32(outFact.Pulse))
	outFact.Shape = shape
	newID, err := target.AddNode(n.Name, d, []fact.PulsedFact{outFact})
	if err != nil {
		return nil, err
	}
	if err := target.AddEdge(in, graph.Inlet{NodeID: newID, Input: 0}); err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

func (d Downsample) transformDelay(delay int) int {
	shifted := delay - d.Modulo
	if shifted < 0 {
		shifted = 0
	}
	return (shifted + d.Stride - 1) / d.Stride
}
