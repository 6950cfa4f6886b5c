package pipeline_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/pipeline"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pulseSourceOp struct{ dim tdim.Dim }

func (pulseSourceOp) Name() string { return "Source" }

func (p pulseSourceOp) Pulsify(source *graph.Model[fact.TypedFact], nodeID int, target *graph.Model[fact.PulsedFact], mapping map[graph.Outlet]graph.Outlet, pulse int) ([]graph.Outlet, error) {
	n, err := source.Node(nodeID)
	if err != nil {
		return nil, err
	}
	typedFact, err := source.OutletFact(graph.Outlet{NodeID: nodeID, Slot: 0})
	if err != nil {
		return nil, err
	}
	pf := fact.NewPulsedFact(typedFact, 0, pulse, 0, p.dim)
	newID, err := target.AddNode(n.Name, n.Op, []fact.PulsedFact{pf})
	if err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

// pulseIdentityOp is pulse-transparent: its pulsed output carries
// whatever axis/pulse/delay its (already pulsified) input carries.
type pulseIdentityOp struct{}

func (pulseIdentityOp) Name() string { return "Identity" }

func (pulseIdentityOp) Pulsify(source *graph.Model[fact.TypedFact], nodeID int, target *graph.Model[fact.PulsedFact], mapping map[graph.Outlet]graph.Outlet, pulse int) ([]graph.Outlet, error) {
	n, err := source.Node(nodeID)
	if err != nil {
		return nil, err
	}
	in, ok := mapping[n.Inputs[0]]
	if !ok {
		return nil, pipeline.ErrNotPulsifiable
	}
	inFact, err := target.OutletFact(in)
	if err != nil {
		return nil, err
	}
	newID, err := target.AddNode(n.Name, n.Op, []fact.PulsedFact{inFact})
	if err != nil {
		return nil, err
	}
	if err := target.AddEdge(in, graph.Inlet{NodeID: newID, Input: 0}); err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

func TestPulsifyWiresPulseMetadata(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	src, _ := m.AddNode("src", pulseSourceOp{dim: tdim.Stream()}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	id, _ := m.AddNode("id", pulseIdentityOp{}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: src, Slot: 0}, graph.Inlet{NodeID: id, Input: 0}))
	require.NoError(t, m.SetOutputOutlets([]graph.Outlet{{NodeID: id, Slot: 0}}))

	pulsed, err := pipeline.Pulsify(m, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, pulsed.NodeCount())

	out := pulsed.OutputOutlets()
	require.Len(t, out, 1)
	f, err := pulsed.OutletFact(out[0])
	require.NoError(t, err)
	assert.Equal(t, 0, f.Axis)
	assert.Equal(t, 4, f.Pulse)
}

func TestPulsifyRejectsNonPulsifiableOp(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	_, _ = m.AddNode("src", stubOp{"Mystery"}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(1))})

	_, err := pipeline.Pulsify(m, 4)
	assert.ErrorIs(t, err, pipeline.ErrNotPulsifiable)
}
