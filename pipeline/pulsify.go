package pipeline

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/patch"
)

// Pulsify lowers a normalized (TypedFact) model into a Pulsed model,
// node by node, delegating to each op's patch.Pulsifier implementation.
// A node whose op does not implement it fails with ErrNotPulsifiable.
func Pulsify(normalized *graph.Model[fact.TypedFact], pulse int) (*graph.Model[fact.PulsedFact], error) {
	target := graph.NewModel[fact.PulsedFact]()

	translate := func(source *graph.Model[fact.TypedFact], nodeID int, target *graph.Model[fact.PulsedFact], mapping map[graph.Outlet]graph.Outlet) error {
		n, err := source.Node(nodeID)
		if err != nil {
			return err
		}
		pulsifier, ok := n.Op.(patch.Pulsifier)
		if !ok {
			return fmt.Errorf("node %d (%s) op %q: %w", nodeID, n.Name, n.Op.Name(), ErrNotPulsifiable)
		}
		outlets, err := pulsifier.Pulsify(source, nodeID, target, mapping, pulse)
		if err != nil {
			return err
		}
		if len(outlets) != n.NumOutputs() {
			return fmt.Errorf("node %d (%s): pulsify returned %d outlet(s), want %d", nodeID, n.Name, len(outlets), n.NumOutputs())
		}
		for slot, out := range outlets {
			mapping[graph.Outlet{NodeID: nodeID, Slot: slot}] = out
		}
		return nil
	}

	if _, err := patch.IntoTranslator[fact.TypedFact, fact.PulsedFact](normalized, target, translate); err != nil {
		return nil, fmt.Errorf("pipeline: pulsify: %w", err)
	}
	return target, nil
}
