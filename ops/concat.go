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

// Concat joins its inputs end to end along Axis; every input must agree
// with the others on every other axis.
type Concat struct {
	Axis int
}

// Name implements op.Op.
func (Concat) Name() string { return "Concat" }

// Eval implements op.Evaluator.
func (c Concat) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("ops: concat: %w", ErrWrongArity)
	}
	out, err := concatAxis(c.Axis, inputs)
	if err != nil {
		return nil, err
	}
	return []tensor.Tensor{out}, nil
}

// Rules implements op.InferenceRuleOp: every input is unified with input
// 0 on datum type, rank and whole shape, Axis included, so inputs of
// different lengths along Axis are reported as a constraint violation.
// The output takes input 0's datum type and shape, with Axis set to
// len(inputs) times input 0's length along it.
func (c Concat) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	if len(inputs) == 0 || len(outputs) != 1 {
		return fmt.Errorf("ops: concat: %w", ErrWrongArity)
	}
	for i := 1; i < len(inputs); i++ {
		s.Equals(solver.In(0), solver.In(i))
	}
	s.GivenDatumType(solver.In(0), func(dt fact.DatumType, inputs, outputs []fact.InferenceFact) (bool, error) {
		if _, ok := outputs[0].DatumType.Get(); ok {
			return false, nil
		}
		outputs[0].DatumType = fact.Only(dt)
		return true, nil
	})
	s.GivenShape(solver.In(0), func(shape []tdim.Dim, inputs, outputs []fact.InferenceFact) (bool, error) {
		if c.Axis < 0 || c.Axis >= len(shape) {
			return false, fmt.Errorf("ops: concat: %w", ErrAxisOutOfRange)
		}
		want := append([]tdim.Dim{}, shape...)
		want[c.Axis] = tdim.MulScalar(int32(len(inputs)), shape[c.Axis])
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
func (c Concat) OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("ops: concat: %w", ErrWrongArity)
	}
	if c.Axis < 0 || c.Axis >= len(inputs[0].Shape) {
		return nil, fmt.Errorf("ops: concat: %w", ErrAxisOutOfRange)
	}
	total := tdim.Val(0)
	for _, in := range inputs {
		if !sameShapeDims(dropAxis(in.Shape, c.Axis), dropAxis(inputs[0].Shape, c.Axis)) {
			return nil, fmt.Errorf("ops: concat: %w", tensor.ErrShapeMismatch)
		}
		total = tdim.Add(total, in.Shape[c.Axis])
	}
	shape := append([]tdim.Dim{}, inputs[0].Shape...)
	shape[c.Axis] = total
	return []fact.TypedFact{fact.NewTypedFact(inputs[0].DatumType, shape...)}, nil
}

// Pulsify implements patch.Pulsifier: concatenating along the streaming
// axis itself would require knowing, pulse by pulse, where each branch
// ends within the infinite stream, which nothing here tracks, so it is
// rejected. Concatenating along any other axis is ordinary per-pulse
// work once every branch is pulsified.
func (c Concat) Pulsify(
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
	if len(n.Inputs) == 0 {
		return nil, fmt.Errorf("ops: concat: %w", ErrWrongArity)
	}
	ins := make([]graph.Outlet, len(n.Inputs))
	inFacts := make([]fact.PulsedFact, len(n.Inputs))
	for i, in := range n.Inputs {
		resolved, ok := mapping[in]
		if !ok {
			return nil, fmt.Errorf("ops: concat: input %d: %w", i, patch.ErrUnresolvedOutlet)
		}
		ins[i] = resolved
		f, err := target.OutletFact(resolved)
		if err != nil {
			return nil, err
		}
		if c.Axis == f.Axis {
			return nil, fmt.Errorf("ops: concat: %w", ErrNonStreamAxis)
		}
		inFacts[i] = f
	}
	typedIns := make([]fact.TypedFact, len(inFacts))
	for i, f := range inFacts {
		typedIns[i] = f.TypedFact
	}
	outFacts, err := c.OutputFacts(typedIns)
	if err != nil {
		return nil, err
	}
	out := inFacts[0]
	out.TypedFact = outFacts[0]
	newID, err := target.AddNode(n.Name, c, []fact.PulsedFact{out})
	if err != nil {
		return nil, err
	}
	for i, in := range ins {
		if err := target.AddEdge(in, graph.Inlet{NodeID: newID, Input: i}); err != nil {
			return nil, err
		}
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

func dropAxis(shape []tdim.Dim, axis int) []tdim.Dim {
	out := make([]tdim.Dim, 0, len(shape)-1)
	for i, d := range shape {
		if i != axis {
			out = append(out, d)
		}
	}
	return out
}
