package pipeline

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/tensor"
)

// FreezeInputs pins the named model inputs to the given constant
// values, setting only their Value component (leaving DatumType/Rank/
// Shape to be resolved by analyse as usual). It is the const-input
// override knob spec.md §6 lists: a declared input the driver already
// knows the value of, baked in rather than left as a runtime argument.
func FreezeInputs(model *graph.Model[fact.InferenceFact], frozen map[string]tensor.Tensor) error {
	if len(frozen) == 0 {
		return nil
	}
	byName := make(map[string]int, model.NodeCount())
	for id := 0; id < model.NodeCount(); id++ {
		name, err := model.NodeName(id)
		if err != nil {
			return err
		}
		byName[name] = id
	}
	for name, value := range frozen {
		id, ok := byName[name]
		if !ok {
			return fmt.Errorf("pipeline: freeze input %q: no node with that name", name)
		}
		f, err := model.OutletFact(graph.Outlet{NodeID: id, Slot: 0})
		if err != nil {
			return err
		}
		f.Value = fact.Only(value)
		if err := model.SetOutletFact(graph.Outlet{NodeID: id, Slot: 0}, f); err != nil {
			return err
		}
	}
	return nil
}
