package patch_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityTranslate clones a node's op, output facts, and any outlet
// label unchanged, letting IntoTranslator's own eval-order walk assign
// the target's node ids; this is what canonicalizing a model's ids
// amounts to when translating to the same fact flavor.
func identityTranslate(source *graph.Model[fact.TypedFact], nodeID int, target *graph.Model[fact.TypedFact], mapping map[graph.Outlet]graph.Outlet) error {
	n, err := source.Node(nodeID)
	if err != nil {
		return err
	}
	outputFacts := make([]fact.TypedFact, n.NumOutputs())
	for slot := range outputFacts {
		f, err := source.OutletFact(graph.Outlet{NodeID: nodeID, Slot: slot})
		if err != nil {
			return err
		}
		outputFacts[slot] = f
	}
	newID, err := target.AddNode(n.Name, n.Op, outputFacts)
	if err != nil {
		return err
	}
	for i, in := range n.Inputs {
		resolved, ok := mapping[in]
		if !ok {
			return patch.ErrUnresolvedOutlet
		}
		if err := target.AddEdge(resolved, graph.Inlet{NodeID: newID, Input: i}); err != nil {
			return err
		}
	}
	for slot := range outputFacts {
		oldOutlet := graph.Outlet{NodeID: nodeID, Slot: slot}
		newOutlet := graph.Outlet{NodeID: newID, Slot: slot}
		mapping[oldOutlet] = newOutlet
		if label, has, err := source.OutletLabel(oldOutlet); err == nil && has {
			if err := target.SetOutletLabel(newOutlet, label); err != nil {
				return err
			}
		}
	}
	return nil
}

// TestIntoTranslatorSameFlavorRoundTripIsCanonical builds a model whose
// node ids are deliberately out of eval-order (the consumer is added
// before its producer), labels one outlet, and checks that translating
// it to the same flavor yields a structurally identical graph whose ids
// now follow eval order - canonicalize_ids by construction.
func TestIntoTranslatorSameFlavorRoundTripIsCanonical(t *testing.T) {
	source := graph.NewModel[fact.TypedFact]()

	sinkID, err := source.AddNode("sink", stubOp{"Sink"}, []fact.TypedFact{f32(5)})
	require.NoError(t, err)
	srcID, err := source.AddNode("src", stubOp{"Source"}, []fact.TypedFact{f32(5)})
	require.NoError(t, err)
	require.NoError(t, source.AddEdge(graph.Outlet{NodeID: srcID, Slot: 0}, graph.Inlet{NodeID: sinkID, Input: 0}))
	require.NoError(t, source.SetOutletLabel(graph.Outlet{NodeID: srcID, Slot: 0}, "feed"))
	require.NoError(t, source.SetInputOutlets([]graph.Outlet{{NodeID: srcID, Slot: 0}}))
	require.NoError(t, source.SetOutputOutlets([]graph.Outlet{{NodeID: sinkID, Slot: 0}}))

	// source's own insertion order (sink=0, src=1) disagrees with its
	// eval order (src, sink); that mismatch is exactly what gets ironed
	// out by translating to a fresh model.
	sourceOrder, err := source.EvalOrder()
	require.NoError(t, err)
	require.Equal(t, []int{srcID, sinkID}, sourceOrder)

	target := graph.NewModel[fact.TypedFact]()
	mapping, err := patch.IntoTranslator[fact.TypedFact, fact.TypedFact](source, target, identityTranslate)
	require.NoError(t, err)

	require.Equal(t, 2, target.NodeCount())
	for i, wantName := range []string{"src", "sink"} {
		n, err := target.Node(i)
		require.NoError(t, err)
		assert.Equal(t, wantName, n.Name)
	}

	// node 0 (src) has no inputs; node 1 (sink) takes node 0's output.
	sinkInputs, err := target.NodeInputs(1)
	require.NoError(t, err)
	require.Len(t, sinkInputs, 1)
	assert.Equal(t, graph.Outlet{NodeID: 0, Slot: 0}, sinkInputs[0])

	label, has, err := target.OutletLabel(graph.Outlet{NodeID: 0, Slot: 0})
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, "feed", label)

	require.Len(t, target.InputOutlets(), 1)
	assert.Equal(t, mapping[graph.Outlet{NodeID: srcID, Slot: 0}], target.InputOutlets()[0])
	require.Len(t, target.OutputOutlets(), 1)
	assert.Equal(t, mapping[graph.Outlet{NodeID: sinkID, Slot: 0}], target.OutputOutlets()[0])
}
