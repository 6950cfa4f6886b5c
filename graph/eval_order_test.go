package graph_test

import (
	"errors"
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(order []int, id int) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

func TestEvalOrderRespectsDependencies(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	a, _ := m.AddNode("a", stubOp{"Source"}, []fact.TypedFact{newTyped(fact.F32)})
	b, _ := m.AddNode("b", stubOp{"Source"}, []fact.TypedFact{newTyped(fact.F32)})
	c, _ := m.AddNode("c", stubOp{"Add"}, []fact.TypedFact{newTyped(fact.F32)})

	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: a, Slot: 0}, graph.Inlet{NodeID: c, Input: 0}))
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: b, Slot: 0}, graph.Inlet{NodeID: c, Input: 1}))
	require.NoError(t, m.SetOutputOutlets([]graph.Outlet{{NodeID: c, Slot: 0}}))

	order, err := m.EvalOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Less(t, indexOf(order, a), indexOf(order, c))
	assert.Less(t, indexOf(order, b), indexOf(order, c))
}

func TestEvalOrderDetectsCycle(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	a, _ := m.AddNode("a", stubOp{"Id"}, []fact.TypedFact{newTyped(fact.F32)})
	b, _ := m.AddNode("b", stubOp{"Id"}, []fact.TypedFact{newTyped(fact.F32)})

	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: a, Slot: 0}, graph.Inlet{NodeID: b, Input: 0}))
	// Close the cycle through the control-input path: a depends on b as
	// a control input, and b depends on a as a data input.
	require.NoError(t, m.SetControlInputs(a, []int{b}))

	_, err := m.EvalOrder()
	assert.True(t, errors.Is(err, graph.ErrCycleDetected))
}
