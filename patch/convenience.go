package patch

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
)

// ReplaceSingleOp builds the patch that swaps one node's op for newOp,
// keeping its inputs and output facts unchanged. It is the common case
// underlying most declutter rules: "this op, on these inputs, is really
// just that other op".
func ReplaceSingleOp[F fact.Fact](host *graph.Model[F], nodeID int, newOp op.Op) (*Patch[F], error) {
	n, err := host.Node(nodeID)
	if err != nil {
		return nil, err
	}
	p := New[F](fmt.Sprintf("replace_single_op(%s)", n.Name))

	inputs := make([]graph.Outlet, len(n.Inputs))
	for i, in := range n.Inputs {
		tapped, err := p.TapModel(host, in)
		if err != nil {
			return nil, err
		}
		inputs[i] = tapped
	}
	outputFacts := make([]F, n.NumOutputs())
	for slot := range outputFacts {
		f, err := host.OutletFact(graph.Outlet{NodeID: nodeID, Slot: slot})
		if err != nil {
			return nil, err
		}
		outputFacts[slot] = f
	}
	outlets, err := p.WireNodeMulti(n.Name, newOp, outputFacts, inputs)
	if err != nil {
		return nil, err
	}
	for slot, out := range outlets {
		if err := p.ShuntOutside(host, graph.Outlet{NodeID: nodeID, Slot: slot}, out); err != nil {
			return nil, err
		}
	}
	p.Obliterate(nodeID)
	return p, nil
}

// SingleUnaryOp is ReplaceSingleOp restricted to the common one-input,
// one-output case, asserting that shape up front rather than letting a
// mismatched declutter rule produce a confusing downstream error.
func SingleUnaryOp[F fact.Fact](host *graph.Model[F], nodeID int, newOp op.Op) (*Patch[F], error) {
	n, err := host.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if len(n.Inputs) != 1 || n.NumOutputs() != 1 {
		return nil, fmt.Errorf("patch: single_unary_op: node %q has %d input(s) and %d output(s), want 1 and 1", n.Name, len(n.Inputs), n.NumOutputs())
	}
	return ReplaceSingleOp(host, nodeID, newOp)
}

// ShuntOneOp builds the patch that takes a single-output node out of the
// data path, rewiring every consumer of its output directly onto one of
// its own inputs and obliterating the node (it stays in the model with
// the dummy op). It is how a declutter rule expresses "this node turns
// out to be the identity function on input i".
func ShuntOneOp[F fact.Fact](host *graph.Model[F], nodeID, inputIndex int) (*Patch[F], error) {
	n, err := host.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if inputIndex < 0 || inputIndex >= len(n.Inputs) {
		return nil, fmt.Errorf("patch: shunt_one_op: input %d out of range for node %q (%d inputs)", inputIndex, n.Name, len(n.Inputs))
	}
	if n.NumOutputs() != 1 {
		return nil, fmt.Errorf("patch: shunt_one_op: node %q has %d output(s), want 1", n.Name, n.NumOutputs())
	}
	p := New[F](fmt.Sprintf("shunt_one_op(%s)", n.Name))
	tapped, err := p.TapModel(host, n.Inputs[inputIndex])
	if err != nil {
		return nil, err
	}
	if err := p.ShuntOutside(host, graph.Outlet{NodeID: nodeID, Slot: 0}, tapped); err != nil {
		return nil, err
	}
	p.Obliterate(nodeID)
	return p, nil
}

// FuseWithNext builds the patch that merges a node and its sole
// successor into one fused op. It requires node to have exactly one
// output with exactly one consumer (next). fusedOp receives node's
// inputs first, followed by next's other inputs (next's input at the
// fused slot is dropped, since that value no longer crosses an outlet).
func FuseWithNext[F fact.Fact](host *graph.Model[F], nodeID int, fusedOp op.Op, outputFacts []F) (*Patch[F], error) {
	n, err := host.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if n.NumOutputs() != 1 {
		return nil, fmt.Errorf("patch: fuse_with_next: node %q has %d output(s), want 1", n.Name, n.NumOutputs())
	}
	succs, err := host.OutletSuccessors(graph.Outlet{NodeID: nodeID, Slot: 0})
	if err != nil {
		return nil, err
	}
	if len(succs) != 1 {
		return nil, fmt.Errorf("patch: fuse_with_next: node %q's output has %d consumer(s), want 1", n.Name, len(succs))
	}
	nextID, fusedSlot := succs[0].NodeID, succs[0].Input
	next, err := host.Node(nextID)
	if err != nil {
		return nil, err
	}

	p := New[F](fmt.Sprintf("fuse_with_next(%s,%s)", n.Name, next.Name))

	var inputs []graph.Outlet
	for _, in := range n.Inputs {
		tapped, err := p.TapModel(host, in)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, tapped)
	}
	for i, in := range next.Inputs {
		if i == fusedSlot {
			continue
		}
		tapped, err := p.TapModel(host, in)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, tapped)
	}

	outlets, err := p.WireNodeMulti(next.Name, fusedOp, outputFacts, inputs)
	if err != nil {
		return nil, err
	}
	for slot, out := range outlets {
		if err := p.ShuntOutside(host, graph.Outlet{NodeID: nextID, Slot: slot}, out); err != nil {
			return nil, err
		}
	}
	p.Obliterate(nodeID)
	p.Obliterate(nextID)
	return p, nil
}

// Intercept builds the patch that inserts a new unary op between
// hostOutlet and every one of its current consumers, leaving the
// original producer untouched, e.g. a Delay node in front of an op that
// needs lookback. Pad.Pulsify does not use it: it adds its Delay node
// directly in the pulsed target model.
func Intercept[F fact.Fact](host *graph.Model[F], hostOutlet graph.Outlet, newOp op.Op, outputFact F) (*Patch[F], error) {
	p := New[F](fmt.Sprintf("intercept(%v)", hostOutlet))
	tapped, err := p.TapModel(host, hostOutlet)
	if err != nil {
		return nil, err
	}
	out, err := p.WireNode(newOp.Name(), newOp, []F{outputFact}, []graph.Outlet{tapped})
	if err != nil {
		return nil, err
	}
	if err := p.ShuntOutside(host, hostOutlet, out); err != nil {
		return nil, err
	}
	return p, nil
}
