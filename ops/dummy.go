package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/tensor"
)

// Dummy is the op patch.Apply substitutes into every node it obliterates
// (spec.md §4.D): the node keeps its wiring, but its consumers have been
// shunted onto other outlets, and evaluating one is always a bug, never
// a legitimate path.
type Dummy struct{}

// Name implements op.Op.
func (Dummy) Name() string { return "Dummy" }

// Eval implements op.Evaluator; it always fails.
func (Dummy) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	return nil, fmt.Errorf("ops: dummy: %w", ErrDummyEval)
}
