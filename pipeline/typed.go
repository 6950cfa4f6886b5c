package pipeline

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/patch"
)

// IntoTyped promotes every node of an inference model to a typed node,
// failing with ErrIncompleteFact if any outlet's fact still has an Any
// component. Callers run analyse (and, ordinarily, incorporate) to a
// fixpoint first.
func IntoTyped(src *graph.Model[fact.InferenceFact]) (*graph.Model[fact.TypedFact], error) {
	target := graph.NewModel[fact.TypedFact]()

	translate := func(source *graph.Model[fact.InferenceFact], nodeID int, target *graph.Model[fact.TypedFact], mapping map[graph.Outlet]graph.Outlet) error {
		n, err := source.Node(nodeID)
		if err != nil {
			return err
		}
		outputFacts := make([]fact.TypedFact, n.NumOutputs())
		for slot := range outputFacts {
			inf, err := source.OutletFact(graph.Outlet{NodeID: nodeID, Slot: slot})
			if err != nil {
				return err
			}
			if !inf.Complete() {
				return fmt.Errorf("node %d (%s) output %d: %w", nodeID, n.Name, slot, ErrIncompleteFact)
			}
			outputFacts[slot] = inf.ToTyped()
		}
		newID, err := target.AddNode(n.Name, n.Op, outputFacts)
		if err != nil {
			return err
		}
		for i, in := range n.Inputs {
			resolved, ok := mapping[in]
			if !ok {
				return fmt.Errorf("node %d (%s) input %d: %w", nodeID, n.Name, i, patch.ErrUnresolvedOutlet)
			}
			if err := target.AddEdge(resolved, graph.Inlet{NodeID: newID, Input: i}); err != nil {
				return err
			}
		}
		for slot := range outputFacts {
			mapping[graph.Outlet{NodeID: nodeID, Slot: slot}] = graph.Outlet{NodeID: newID, Slot: slot}
		}
		return nil
	}

	if _, err := patch.IntoTranslator[fact.InferenceFact, fact.TypedFact](src, target, translate); err != nil {
		return nil, fmt.Errorf("pipeline: into_typed: %w", err)
	}
	return target, nil
}
