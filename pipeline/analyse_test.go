package pipeline_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/pipeline"
	"github.com/lvlath-tract/tract/solver"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOp struct{ name string }

func (s stubOp) Name() string { return s.name }

// passOp forwards its single input's fact to its single output
// unchanged, the way a reshape-to-same-shape or identity op would.
type passOp struct{}

func (passOp) Name() string { return "Pass" }

func (passOp) Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error {
	s.Equals(solver.In(0), solver.Out(0))
	return nil
}

func TestAnalysePropagatesAcrossEdge(t *testing.T) {
	m := graph.NewModel[fact.InferenceFact]()
	src, _ := m.AddNode("src", stubOp{"Source"}, []fact.InferenceFact{{
		DatumType: fact.Only(fact.F32),
		Shape:     fact.Only([]tdim.Dim{tdim.Val(3)}),
	}})
	pass, _ := m.AddNode("pass", passOp{}, []fact.InferenceFact{fact.AnyInferenceFact()})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: src, Slot: 0}, graph.Inlet{NodeID: pass, Input: 0}))

	require.NoError(t, pipeline.Analyse(m, 100, true))

	got, err := m.OutletFact(graph.Outlet{NodeID: pass, Slot: 0})
	require.NoError(t, err)
	dt, ok := got.DatumType.Get()
	require.True(t, ok)
	assert.Equal(t, fact.F32, dt)
	shape, ok := got.Shape.Get()
	require.True(t, ok)
	require.Len(t, shape, 1)
	assert.True(t, shape[0].Equal(tdim.Val(3)))
}

func TestAnalyseFailFastAbortsOnConflict(t *testing.T) {
	m := graph.NewModel[fact.InferenceFact]()
	a, _ := m.AddNode("a", stubOp{"Source"}, []fact.InferenceFact{{DatumType: fact.Only(fact.F32)}})
	b, _ := m.AddNode("b", passOp{}, []fact.InferenceFact{{DatumType: fact.Only(fact.I32)}})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: a, Slot: 0}, graph.Inlet{NodeID: b, Input: 0}))

	err := pipeline.Analyse(m, 100, true)
	assert.Error(t, err)
}

func TestAnalyseFailFastFalseCollectsViolations(t *testing.T) {
	m := graph.NewModel[fact.InferenceFact]()
	a, _ := m.AddNode("a", stubOp{"Source"}, []fact.InferenceFact{{DatumType: fact.Only(fact.F32)}})
	b, _ := m.AddNode("b", passOp{}, []fact.InferenceFact{{DatumType: fact.Only(fact.I32)}})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: a, Slot: 0}, graph.Inlet{NodeID: b, Input: 0}))

	err := pipeline.Analyse(m, 100, false)
	assert.Error(t, err)
}
