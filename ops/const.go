package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// Const is a zero-input node whose single output is a known tensor. The
// node's declared fact is pinned directly by whoever builds the model
// (InferenceFact.Value carries Value from the start); Const contributes
// no inference rule beyond its own fixed output.
type Const struct {
	DatumType fact.DatumType
	Value     tensor.Tensor
}

// Name implements op.Op.
func (Const) Name() string { return "Const" }

// Eval implements op.Evaluator.
func (c Const) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	if len(inputs) != 0 {
		return nil, fmt.Errorf("ops: const: %w", ErrWrongArity)
	}
	return []tensor.Tensor{c.Value.Clone()}, nil
}

// OutputFacts implements op.TypedFactPropagator: a Const's fact is
// entirely determined by its own Value, regardless of context.
func (c Const) OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error) {
	if len(inputs) != 0 {
		return nil, fmt.Errorf("ops: const: %w", ErrWrongArity)
	}
	shape := make([]tdim.Dim, len(c.Value.Shape))
	for i, d := range c.Value.Shape {
		shape[i] = tdim.Val(int32(d))
	}
	return []fact.TypedFact{fact.NewTypedFact(c.DatumType, shape...).WithValue(c.Value)}, nil
}
