package ops_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/ops"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadEvalConstant(t *testing.T) {
	in, _ := tensor.New([]int{3}, []float64{1, 2, 3})
	p := ops.Pad{Axis: 0, Before: 1, After: 2, Mode: ops.PadModeConstant, Constant: 9}
	out, err := p.Eval([]tensor.Tensor{in})
	require.NoError(t, err)
	want, _ := tensor.New([]int{6}, []float64{9, 1, 2, 3, 9, 9})
	assert.True(t, out[0].Equal(want))
}

func TestPadEvalEdge(t *testing.T) {
	in, _ := tensor.New([]int{3}, []float64{1, 2, 3})
	p := ops.Pad{Axis: 0, Before: 2, After: 1, Mode: ops.PadModeEdge}
	out, err := p.Eval([]tensor.Tensor{in})
	require.NoError(t, err)
	want, _ := tensor.New([]int{6}, []float64{1, 1, 1, 2, 3, 3})
	assert.True(t, out[0].Equal(want))
}

func TestPadDeclutterIdentityOnZeroPad(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	srcID, _ := m.AddNode("src", ops.Source{Axis: -1}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(3))})
	padID, _ := m.AddNode("pad", ops.Pad{Axis: 0}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(3))})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: padID, Input: 0}))
	sinkID, _ := m.AddNode("sink", ops.Source{Axis: -1}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(3))})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: padID, Slot: 0}, graph.Inlet{NodeID: sinkID, Input: 0}))
	require.NoError(t, m.SetOutputOutlets([]graph.Outlet{{NodeID: sinkID, Slot: 0}}))

	p, err := (ops.Pad{Axis: 0}).Declutter(m, padID)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestPadPulsifyRejectsReflect(t *testing.T) {
	typed := graph.NewModel[fact.TypedFact]()
	srcID, _ := typed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	padID, _ := typed.AddNode("pad", ops.Pad{Axis: 0, Before: 1, After: 1, Mode: ops.PadModeReflect}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	require.NoError(t, typed.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: padID, Input: 0}))

	pulsed := graph.NewModel[fact.PulsedFact]()
	srcPulsedID, _ := pulsed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.PulsedFact{
		fact.NewPulsedFact(fact.NewTypedFact(fact.F32, tdim.Stream()), 0, 4, 0, tdim.Stream()),
	})
	mapping := map[graph.Outlet]graph.Outlet{{NodeID: srcID, Slot: 0}: {NodeID: srcPulsedID, Slot: 0}}

	_, err := (ops.Pad{Axis: 0, Before: 1, After: 1, Mode: ops.PadModeReflect}).Pulsify(typed, padID, pulsed, mapping, 4)
	assert.ErrorIs(t, err, ops.ErrReflectNotPulsifiable)
}

func TestPadPulsifyRejectsNarrowEdge(t *testing.T) {
	typed := graph.NewModel[fact.TypedFact]()
	srcID, _ := typed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	padID, _ := typed.AddNode("pad", ops.Pad{Axis: 0, Before: 4, After: 0, Mode: ops.PadModeEdge}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	require.NoError(t, typed.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: padID, Input: 0}))

	pulsed := graph.NewModel[fact.PulsedFact]()
	srcPulsedID, _ := pulsed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.PulsedFact{
		fact.NewPulsedFact(fact.NewTypedFact(fact.F32, tdim.Stream()), 0, 4, 0, tdim.Stream()),
	})
	mapping := map[graph.Outlet]graph.Outlet{{NodeID: srcID, Slot: 0}: {NodeID: srcPulsedID, Slot: 0}}

	_, err := (ops.Pad{Axis: 0, Before: 4, After: 0, Mode: ops.PadModeEdge}).Pulsify(typed, padID, pulsed, mapping, 4)
	assert.ErrorIs(t, err, ops.ErrEdgePulsifyTooNarrow)
}

func TestPadPulsifyInsertsDelayWhenLookbackMissing(t *testing.T) {
	typed := graph.NewModel[fact.TypedFact]()
	srcID, _ := typed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	padID, _ := typed.AddNode("pad", ops.Pad{Axis: 0, Before: 2, After: 0, Mode: ops.PadModeConstant}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	require.NoError(t, typed.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: padID, Input: 0}))

	pulsed := graph.NewModel[fact.PulsedFact]()
	srcPulsedID, _ := pulsed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.PulsedFact{
		fact.NewPulsedFact(fact.NewTypedFact(fact.F32, tdim.Stream()), 0, 4, 0, tdim.Stream()),
	})
	mapping := map[graph.Outlet]graph.Outlet{{NodeID: srcID, Slot: 0}: {NodeID: srcPulsedID, Slot: 0}}

	outs, err := (ops.Pad{Axis: 0, Before: 2, After: 0, Mode: ops.PadModeConstant}).Pulsify(typed, padID, pulsed, mapping, 4)
	require.NoError(t, err)
	require.Len(t, outs, 1)

	padNode, err := pulsed.Node(outs[0].NodeID)
	require.NoError(t, err)
	_, ok := padNode.Op.(ops.PulsePad)
	assert.True(t, ok)
	require.Len(t, padNode.Inputs, 1)

	delayNode, err := pulsed.Node(padNode.Inputs[0].NodeID)
	require.NoError(t, err)
	_, ok = delayNode.Op.(ops.Delay)
	assert.True(t, ok)

	pf, err := pulsed.OutletFact(outs[0])
	require.NoError(t, err)
	assert.Equal(t, 0, pf.Delay)
}
