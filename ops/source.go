package ops

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// Source is a zero-input node standing for one of the model's declared
// inputs (spec.md §6): its value comes from whoever drives the plan, not
// from Eval. Axis names which of its output's axes streams once
// pulsified, and StreamDim is the symbolic length attached to that axis
// (ordinarily tdim.Stream()); a Source with no streaming axis (a purely
// batch-shaped input) uses Axis -1.
type Source struct {
	Axis      int
	StreamDim tdim.Dim
}

// Name implements op.Op.
func (Source) Name() string { return "Source" }

// Eval implements op.Evaluator; it always fails, since a source's value
// is supplied externally.
func (Source) Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error) {
	return nil, fmt.Errorf("ops: source: %w", ErrSourceEval)
}

// Pulsify implements patch.Pulsifier: a source carries its declared
// typed fact straight over into the pulsed model, attaching streaming
// metadata for Axis.
func (s Source) Pulsify(
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
	typedFact, err := source.OutletFact(graph.Outlet{NodeID: nodeID, Slot: 0})
	if err != nil {
		return nil, err
	}
	pf := fact.NewPulsedFact(typedFact, s.Axis, pulse, 0, s.StreamDim)
	newID, err := target.AddNode(n.Name, n.Op, []fact.PulsedFact{pf})
	if err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}
