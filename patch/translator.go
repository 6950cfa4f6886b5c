package patch

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
)

// NodeTranslator lowers one source node into zero or more target nodes.
// By the time it is called for nodeID, mapping already holds a target
// outlet for every source outlet nodeID depends on (its Inputs and
// ControlInputs); the translator is responsible for adding an entry to
// mapping for each of nodeID's own outputs before returning.
type NodeTranslator[S fact.Fact, T fact.Fact] func(
	source *graph.Model[S],
	nodeID int,
	target *graph.Model[T],
	mapping map[graph.Outlet]graph.Outlet,
) error

// IntoTranslator lowers an entire model node-by-node into target,
// preserving input and output order. Nodes are visited in the source's
// evaluation order so a translator always sees its dependencies already
// mapped; declared input nodes that EvalOrder would otherwise skip
// because nothing downstream of the model's outputs depends on them
// (a model can declare more inputs than its outputs actually use) are
// still translated afterward, so the target's input signature has the
// same length and order as the source's.
func IntoTranslator[S fact.Fact, T fact.Fact](
	source *graph.Model[S],
	target *graph.Model[T],
	translate NodeTranslator[S, T],
) (map[graph.Outlet]graph.Outlet, error) {
	order, err := source.EvalOrder()
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	visited := make(map[int]bool, len(order))
	for _, id := range order {
		visited[id] = true
	}
	for _, in := range source.InputOutlets() {
		if !visited[in.NodeID] {
			order = append(order, in.NodeID)
			visited[in.NodeID] = true
		}
	}

	mapping := make(map[graph.Outlet]graph.Outlet)
	for _, id := range order {
		if err := translate(source, id, target, mapping); err != nil {
			name, _ := source.NodeName(id)
			return nil, fmt.Errorf("translate: node %d (%s): %w", id, name, err)
		}
	}

	inputs := make([]graph.Outlet, len(source.InputOutlets()))
	for i, o := range source.InputOutlets() {
		mapped, ok := mapping[o]
		if !ok {
			return nil, fmt.Errorf("translate: input outlet %v: %w", o, ErrUnresolvedOutlet)
		}
		inputs[i] = mapped
	}
	if err := target.SetInputOutlets(inputs); err != nil {
		return nil, fmt.Errorf("translate: set inputs: %w", err)
	}

	outputs := make([]graph.Outlet, len(source.OutputOutlets()))
	for i, o := range source.OutputOutlets() {
		mapped, ok := mapping[o]
		if !ok {
			return nil, fmt.Errorf("translate: output outlet %v: %w", o, ErrUnresolvedOutlet)
		}
		outputs[i] = mapped
	}
	if err := target.SetOutputOutlets(outputs); err != nil {
		return nil, fmt.Errorf("translate: set outputs: %w", err)
	}

	return mapping, nil
}
