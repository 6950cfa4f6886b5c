package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
	"github.com/lvlath-tract/tract/patch"
	"github.com/lvlath-tract/tract/solver"
	"github.com/lvlath-tract/tract/tensor"
)

// Add is plain elementwise addition of two identically shaped tensors.
// It exists chiefly to give InvariantProvider and the zero-identity
// declutter rule a real tenant.
type Add struct{}

// Name implements op.Op.
func (Add) Name() string { return "Add" }

// Eval implements op.Evaluator.
func (Add) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("ops: add: %w", ErrWrongArity)
	}
	a, b := inputs[0], inputs[1]
	if !sameShapeInts(a.Shape, b.Shape) {
		return nil, fmt.Errorf("ops: add: %w", tensor.ErrShapeMismatch)
	}
	data := make([]float64, len(a.Data))
	for i := range data {
		data[i] = a.Data[i] + b.Data[i]
	}
	out, err := tensor.New(a.Shape, data)
	if err != nil {
		return nil, err
	}
	return []tensor.Tensor{out}, nil
}

// Rules implements op.InferenceRuleOp: both inputs and the output share
// one datum type, rank, and shape.
func (Add) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	if len(inputs) != 2 || len(outputs) != 1 {
		return fmt.Errorf("ops: add: %w", ErrWrongArity)
	}
	s.Equals(solver.In(0), solver.In(1))
	s.Equals(solver.In(0), solver.Out(0))
	return nil
}

// Invariants implements op.InvariantProvider. Its no-argument signature
// cannot report per-model axis counts the way a concrete node's rank
// would; Add is elementwise on every axis regardless of rank, so one
// Elementwise marker is a complete, rank-agnostic answer. Ops whose
// invariants genuinely depend on a node's shape (Slice, Pad, Downsample)
// do not implement this capability for that reason (see DESIGN.md).
func (Add) Invariants() []op.AxisInfo {
	return []op.AxisInfo{{Elementwise: true}}
}

// OutputFacts implements op.TypedFactPropagator.
func (Add) OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("ops: add: %w", ErrWrongArity)
	}
	if inputs[0].DatumType != inputs[1].DatumType || !sameShapeDims(inputs[0].Shape, inputs[1].Shape) {
		return nil, fmt.Errorf("ops: add: %w", tensor.ErrShapeMismatch)
	}
	return []fact.TypedFact{fact.NewTypedFact(inputs[0].DatumType, inputs[0].Shape...)}, nil
}

// PulsedOutputFacts implements op.PulsedFactPropagator: both pulsed
// inputs must already agree on streaming axis, pulse size, and delay;
// nothing here inserts the Delay needed to align them, that is the
// caller's job (upstream pulsify decisions), so disagreement is an
// error rather than something Add can silently paper over.
func (Add) PulsedOutputFacts(inputs []fact.PulsedFact) ([]fact.PulsedFact, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("ops: add: %w", ErrWrongArity)
	}
	a, b := inputs[0], inputs[1]
	if a.Axis != b.Axis || a.Pulse != b.Pulse || a.Delay != b.Delay {
		return nil, fmt.Errorf("ops: add: %w", ErrAxisMismatch)
	}
	return []fact.PulsedFact{a}, nil
}

// Declutter implements patch.Decluttering[fact.TypedFact]: adding a
// known all-zero constant is the identity function.
func (Add) Declutter(model *graph.Model[fact.TypedFact], nodeID int) (*patch.Patch[fact.TypedFact], error) {
	n, err := model.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if len(n.Inputs) != 2 {
		return nil, nil
	}
	for side := 0; side < 2; side++ {
		other := 1 - side
		producer, err := model.Node(n.Inputs[side].NodeID)
		if err != nil {
			return nil, err
		}
		c, ok := producer.Op.(Const)
		if !ok || !isAllZero(c.Value) {
			continue
		}
		return patch.ShuntOneOp[fact.TypedFact](model, nodeID, other)
	}
	return nil, nil
}

// Codegen implements patch.Codegenner[fact.PulsedFact]: once both
// operands are known constants, the addition itself can be resolved at
// compile time into a single Const node, per spec.md's "finalize to a
// fixed-shape, kernel-ready op".
func (a Add) Codegen(model *graph.Model[fact.PulsedFact], nodeID int) (*patch.Patch[fact.PulsedFact], error) {
	n, err := model.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if len(n.Inputs) != 2 {
		return nil, nil
	}
	var values [2]tensor.Tensor
	for i, in := range n.Inputs {
		producer, err := model.Node(in.NodeID)
		if err != nil {
			return nil, err
		}
		c, ok := producer.Op.(Const)
		if !ok {
			return nil, nil
		}
		values[i] = c.Value
	}
	folded, err := a.Eval(values[:])
	if err != nil {
		return nil, err
	}
	outFact, err := model.OutletFact(graph.Outlet{NodeID: nodeID, Slot: 0})
	if err != nil {
		return nil, err
	}
	newOp := Const{DatumType: outFact.DatumType, Value: folded[0]}
	return patch.ReplaceSingleOp[fact.PulsedFact](model, nodeID, newOp)
}

// Pulsify implements patch.Pulsifier: both inputs must already be
// pulsified (and agree on axis/pulse/delay, checked via
// PulsedOutputFacts) before Add can be wired.
func (a Add) Pulsify(
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
	if len(n.Inputs) != 2 {
		return nil, fmt.Errorf("ops: add: %w", ErrWrongArity)
	}
	ins := make([]graph.Outlet, 2)
	pulsedIns := make([]fact.PulsedFact, 2)
	for i, in := range n.Inputs {
		resolved, ok := mapping[in]
		if !ok {
			return nil, fmt.Errorf("ops: add: input %d: %w", i, patch.ErrUnresolvedOutlet)
		}
		ins[i] = resolved
		f, err := target.OutletFact(resolved)
		if err != nil {
			return nil, err
		}
		pulsedIns[i] = f
	}
	outFacts, err := a.PulsedOutputFacts(pulsedIns)
	if err != nil {
		return nil, err
	}
	newID, err := target.AddNode(n.Name, n.Op, outFacts)
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

func isAllZero(t tensor.Tensor) bool {
	for _, v := range t.Data {
		if v != 0 {
			return false
		}
	}
	return true
}
