package pipeline

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
)

// IntoNormalized rejects any node whose op does not satisfy valid,
// the precondition pulsify requires (spec.md §4.E). The default
// validator (see WithNormalizedValidator) rejects PulseOnly ops.
func IntoNormalized(model *graph.Model[fact.TypedFact], valid func(op.Op) bool) error {
	for id := 0; id < model.NodeCount(); id++ {
		o, err := model.NodeOp(id)
		if err != nil {
			return err
		}
		if !valid(o) {
			name, _ := model.NodeName(id)
			return fmt.Errorf("pipeline: into_normalized: node %d (%s) op %q: %w", id, name, o.Name(), ErrNotNormalized)
		}
	}
	return nil
}
