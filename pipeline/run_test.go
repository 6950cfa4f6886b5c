package pipeline_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/pipeline"
	"github.com/lvlath-tract/tract/solver"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoSourceOp is a no-input node whose fact is already complete;
// pulsify wires it into the target model directly.
type echoSourceOp struct{}

func (echoSourceOp) Name() string { return "Source" }

func (echoSourceOp) Pulsify(source *graph.Model[fact.TypedFact], nodeID int, target *graph.Model[fact.PulsedFact], mapping map[graph.Outlet]graph.Outlet, pulse int) ([]graph.Outlet, error) {
	n, err := source.Node(nodeID)
	if err != nil {
		return nil, err
	}
	typedFact, err := source.OutletFact(graph.Outlet{NodeID: nodeID, Slot: 0})
	if err != nil {
		return nil, err
	}
	pf := fact.NewPulsedFact(typedFact, 0, pulse, 0, tdim.Stream())
	newID, err := target.AddNode(n.Name, n.Op, []fact.PulsedFact{pf})
	if err != nil {
		return nil, err
	}
	return []graph.Outlet{{NodeID: newID, Slot: 0}}, nil
}

// echoPassOp both participates in inference-time unification (its
// output fact mirrors its input) and is pulse-transparent.
type echoPassOp struct{}

func (echoPassOp) Name() string { return "Pass" }

func (echoPassOp) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	s.Equals(solver.In(0), solver.Out(0))
	return nil
}

func (echoPassOp) Pulsify(source *graph.Model[fact.TypedFact], nodeID int, target *graph.Model[fact.PulsedFact], mapping map[graph.Outlet]graph.Outlet, pulse int) ([]graph.Outlet, error) {
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

func buildInferenceModel(t *testing.T) *graph.Model[fact.InferenceFact] {
	t.Helper()
	m := graph.NewModel[fact.InferenceFact]()
	src, err := m.AddNode("src", echoSourceOp{}, []fact.InferenceFact{{
		DatumType: fact.Only(fact.F32),
		Rank:      fact.Only(1),
		Shape:     fact.Only([]tdim.Dim{tdim.Stream()}),
		Value:     fact.Only(tensor.Scalar(0)),
	}})
	require.NoError(t, err)
	pass, err := m.AddNode("pass", echoPassOp{}, []fact.InferenceFact{fact.AnyInferenceFact()})
	require.NoError(t, err)
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: src, Slot: 0}, graph.Inlet{NodeID: pass, Input: 0}))
	require.NoError(t, m.SetInputOutlets([]graph.Outlet{{NodeID: src, Slot: 0}}))
	require.NoError(t, m.SetOutputOutlets([]graph.Outlet{{NodeID: pass, Slot: 0}}))
	return m
}

func TestRunFullPipelineProducesPulsedModel(t *testing.T) {
	m := buildInferenceModel(t)

	result, err := pipeline.Run(m, stubOp{"Dummy"}, pipeline.WithPulseSize(4))
	require.NoError(t, err)
	require.Equal(t, pipeline.StageCodegen, result.StoppedAt)
	require.NotNil(t, result.Typed)
	require.NotNil(t, result.Pulsed)
	assert.Equal(t, 2, result.Pulsed.NodeCount())

	out := result.Pulsed.OutputOutlets()
	require.Len(t, out, 1)
	f, err := result.Pulsed.OutletFact(out[0])
	require.NoError(t, err)
	assert.Equal(t, 4, f.Pulse)
}

func TestRunStopsAtRequestedStage(t *testing.T) {
	m := buildInferenceModel(t)

	result, err := pipeline.Run(m, stubOp{"Dummy"}, pipeline.WithStopAt(pipeline.StageAnalyse))
	assert.ErrorIs(t, err, pipeline.ErrStoppedAtStage)
	assert.Equal(t, pipeline.StageAnalyse, result.StoppedAt)
	assert.Nil(t, result.Typed)
}
