package ops_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/ops"
	"github.com/lvlath-tract/tract/patch"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsampleEval(t *testing.T) {
	in, _ := tensor.New([]int{6}, []float64{0, 1, 2, 3, 4, 5})
	d := ops.Downsample{Axis: 0, Stride: 2, Modulo: 1}
	out, err := d.Eval([]tensor.Tensor{in})
	require.NoError(t, err)
	want, _ := tensor.New([]int{3}, []float64{1, 3, 5})
	assert.True(t, out[0].Equal(want))
}

func TestDownsampleDeclutterIdentityOnStrideOne(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	srcID, _ := m.AddNode("src", ops.Source{Axis: -1}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(4))})
	dsID, _ := m.AddNode("ds", ops.Downsample{Axis: 0, Stride: 1}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(4))})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: dsID, Input: 0}))
	sinkID, _ := m.AddNode("sink", ops.Source{Axis: -1}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(4))})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: dsID, Slot: 0}, graph.Inlet{NodeID: sinkID, Input: 0}))
	require.NoError(t, m.SetOutputOutlets([]graph.Outlet{{NodeID: sinkID, Slot: 0}}))

	p, err := ops.Downsample{Axis: 0, Stride: 1}.Declutter(m, dsID)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestDownsamplePulsifyRequiresStrideDividesPulse(t *testing.T) {
	typed := graph.NewModel[fact.TypedFact]()
	srcID, _ := typed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	dsID, _ := typed.AddNode("ds", ops.Downsample{Axis: 0, Stride: 3}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	require.NoError(t, typed.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: dsID, Input: 0}))

	pulsed := graph.NewModel[fact.PulsedFact]()
	srcPulsedID, _ := pulsed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.PulsedFact{
		fact.NewPulsedFact(fact.NewTypedFact(fact.F32, tdim.Stream()), 0, 4, 0, tdim.Stream()),
	})
	mapping := map[graph.Outlet]graph.Outlet{{NodeID: srcID, Slot: 0}: {NodeID: srcPulsedID, Slot: 0}}

	_, err := ops.Downsample{Axis: 0, Stride: 3}.Pulsify(typed, dsID, pulsed, mapping, 4)
	assert.ErrorIs(t, err, ops.ErrStrideNotPulseMultiple)
}

// TestDownsampleDeclutterPullsUpThroughSlice mirrors original_source's
// downsample-over-slice rewrite example: Downsample{stride=2, modulo=0}
// fed by Slice{start=4, end=20} becomes Downsample{stride=2, modulo=0}
// (since 4 is already even) feeding a narrowed Slice{start=2, end=10}.
func TestDownsampleDeclutterPullsUpThroughSlice(t *testing.T) {
	m := graph.NewModel[fact.TypedFact]()
	srcID, _ := m.AddNode("src", ops.Source{Axis: -1}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(24))})
	sliceID, _ := m.AddNode("slice", ops.Slice{Axis: 0, Start: tdim.Val(4), End: tdim.Val(20)}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(16))})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: sliceID, Input: 0}))
	dsID, _ := m.AddNode("ds", ops.Downsample{Axis: 0, Stride: 2, Modulo: 0}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Val(8))})
	require.NoError(t, m.AddEdge(graph.Outlet{NodeID: sliceID, Slot: 0}, graph.Inlet{NodeID: dsID, Input: 0}))
	require.NoError(t, m.SetOutputOutlets([]graph.Outlet{{NodeID: dsID, Slot: 0}}))

	p, err := (ops.Downsample{Axis: 0, Stride: 2, Modulo: 0}).Declutter(m, dsID)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NoError(t, patch.Apply(m, p, ops.Dummy{}))

	order, err := m.EvalOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)

	dsOut := m.OutputOutlets()[0]
	sliceAfter, err := m.NodeOp(dsOut.NodeID)
	require.NoError(t, err)
	newSlice, ok := sliceAfter.(ops.Slice)
	require.True(t, ok)
	assert.True(t, newSlice.Start.Equal(tdim.Val(2)))
	assert.True(t, newSlice.End.Equal(tdim.Val(10)))

	sliceInputs, err := m.NodeInputs(dsOut.NodeID)
	require.NoError(t, err)
	require.Len(t, sliceInputs, 1)
	dsBefore, err := m.NodeOp(sliceInputs[0].NodeID)
	require.NoError(t, err)
	newDown, ok := dsBefore.(ops.Downsample)
	require.True(t, ok)
	assert.Equal(t, 2, newDown.Stride)
	assert.Equal(t, 0, newDown.Modulo)
}

func TestDownsamplePulsifyOnStreamAxis(t *testing.T) {
	typed := graph.NewModel[fact.TypedFact]()
	srcID, _ := typed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	dsID, _ := typed.AddNode("ds", ops.Downsample{Axis: 0, Stride: 2}, []fact.TypedFact{fact.NewTypedFact(fact.F32, tdim.Stream())})
	require.NoError(t, typed.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: dsID, Input: 0}))

	pulsed := graph.NewModel[fact.PulsedFact]()
	srcPulsedID, _ := pulsed.AddNode("src", ops.Source{Axis: 0, StreamDim: tdim.Stream()}, []fact.PulsedFact{
		fact.NewPulsedFact(fact.NewTypedFact(fact.F32, tdim.Stream()), 0, 4, 0, tdim.Stream()),
	})
	mapping := map[graph.Outlet]graph.Outlet{{NodeID: srcID, Slot: 0}: {NodeID: srcPulsedID, Slot: 0}}

	outs, err := ops.Downsample{Axis: 0, Stride: 2}.Pulsify(typed, dsID, pulsed, mapping, 4)
	require.NoError(t, err)
	pf, err := pulsed.OutletFact(outs[0])
	require.NoError(t, err)
	assert.Equal(t, 2, pf.Pulse)
}
