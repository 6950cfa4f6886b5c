package graph

import (
	"fmt"

	"github.com/lvlath-tract/tract/op"
)

// AddNode appends a node with empty inputs and len(outputFacts) outputs,
// returning its stable id.
//
// Concurrency: acquires the write lock for the whole call; no partial
// state is visible to a concurrent reader even on the error path (there
// is none once the name has been validated).
func (m *Model[F]) AddNode(name string, o op.Op, outputFacts []F) (int, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := len(m.nodes)
	outputs := make([]outputSlot[F], len(outputFacts))
	for i, f := range outputFacts {
		outputs[i] = outputSlot[F]{fact: f}
	}
	m.nodes = append(m.nodes, &Node[F]{
		ID:      id,
		Name:    name,
		Op:      o,
		outputs: outputs,
	})

	return id, nil
}

// node returns the node for id without locking; callers hold m.mu.
func (m *Model[F]) node(id int) (*Node[F], error) {
	if id < 0 || id >= len(m.nodes) {
		return nil, fmt.Errorf("graph: node %d: %w", id, ErrNodeNotFound)
	}
	return m.nodes[id], nil
}

// NodeCount returns the number of nodes in the model.
func (m *Model[F]) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// Node returns the node with the given id. The returned pointer is
// read-only by convention: callers must not mutate it directly, using
// the Model's mutating methods (SetNodeOp, SetOutletFact, ...) instead.
func (m *Model[F]) Node(id int) (*Node[F], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.node(id)
}

// NodeName returns a node's name.
func (m *Model[F]) NodeName(id int) (string, error) {
	n, err := m.Node(id)
	if err != nil {
		return "", err
	}
	return n.Name, nil
}

// NodeOp returns a node's op.
func (m *Model[F]) NodeOp(id int) (op.Op, error) {
	n, err := m.Node(id)
	if err != nil {
		return nil, err
	}
	return n.Op, nil
}

// NodeInputs returns a node's ordered input outlets. The returned slice
// must not be mutated by the caller.
func (m *Model[F]) NodeInputs(id int) ([]Outlet, error) {
	n, err := m.Node(id)
	if err != nil {
		return nil, err
	}
	return n.Inputs, nil
}

// SetNodeOp replaces a node's op in place, used by patch.Apply's
// obliterate phase to neutralize a node without disturbing its wiring.
func (m *Model[F]) SetNodeOp(id int, newOp op.Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(id)
	if err != nil {
		return err
	}
	n.Op = newOp
	return nil
}

// SetControlInputs replaces a node's control-input list.
func (m *Model[F]) SetControlInputs(id int, controls []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(id)
	if err != nil {
		return err
	}
	n.ControlInputs = append([]int{}, controls...)
	return nil
}
