package graph

import "fmt"

// AddEdge establishes the link from producer to consumer: it fails if
// either endpoint is invalid, or if consumer.Input does not name the
// next sequential input slot on its node (inputs are recorded in the
// order they are wired, never sparse). The reverse successor entry is
// recorded on the producer's outlet.
func (m *Model[F]) AddEdge(producer Outlet, consumer Inlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pn, err := m.node(producer.NodeID)
	if err != nil {
		return err
	}
	if producer.Slot < 0 || producer.Slot >= len(pn.outputs) {
		return fmt.Errorf("graph: outlet %d/%d: %w", producer.NodeID, producer.Slot, ErrOutletOutOfRange)
	}

	cn, err := m.node(consumer.NodeID)
	if err != nil {
		return err
	}
	if consumer.Input != len(cn.Inputs) {
		return fmt.Errorf("graph: inlet %d/%d: %w", consumer.NodeID, consumer.Input, ErrInletOutOfRange)
	}

	cn.Inputs = append(cn.Inputs, producer)
	pn.outputs[producer.Slot].successors = append(pn.outputs[producer.Slot].successors, consumer)

	return nil
}

// OutletFact returns the fact currently recorded on an outlet.
func (m *Model[F]) OutletFact(o Outlet) (F, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var zero F
	n, err := m.node(o.NodeID)
	if err != nil {
		return zero, err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return zero, fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	return n.outputs[o.Slot].fact, nil
}

// SetOutletFact replaces the fact recorded on an outlet.
func (m *Model[F]) SetOutletFact(o Outlet, f F) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	n.outputs[o.Slot].fact = f
	return nil
}

// OutletSuccessors returns the ordered inlets consuming an outlet. The
// returned slice must not be mutated by the caller.
func (m *Model[F]) OutletSuccessors(o Outlet) ([]Inlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return nil, err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return nil, fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	return n.outputs[o.Slot].successors, nil
}

// replaceOutletSuccessors overwrites the successor list on an outlet,
// used by patch.Apply's shunt phase when it retargets every consumer of
// a replaced outlet onto its replacement.
func (m *Model[F]) replaceOutletSuccessors(o Outlet, successors []Inlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	n.outputs[o.Slot].successors = successors
	return nil
}

// AddOutletSuccessor appends a single inlet to an outlet's successor
// list without touching the consumer's recorded Inputs; used by
// patch.Apply to transplant successors onto a shunt replacement.
func (m *Model[F]) AddOutletSuccessor(o Outlet, consumer Inlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	n.outputs[o.Slot].successors = append(n.outputs[o.Slot].successors, consumer)
	return nil
}

// TakeOutletSuccessors returns and clears an outlet's successor list.
func (m *Model[F]) TakeOutletSuccessors(o Outlet) ([]Inlet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return nil, err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return nil, fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	taken := n.outputs[o.Slot].successors
	n.outputs[o.Slot].successors = nil
	return taken, nil
}

// RewireInput overwrites a single already-recorded input slot on a node,
// used by patch.Apply phase 3 to point a cloned node's inputs at their
// resolved host outlets.
func (m *Model[F]) RewireInput(consumer Inlet, producer Outlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cn, err := m.node(consumer.NodeID)
	if err != nil {
		return err
	}
	if consumer.Input < 0 || consumer.Input >= len(cn.Inputs) {
		return fmt.Errorf("graph: inlet %d/%d: %w", consumer.NodeID, consumer.Input, ErrInletOutOfRange)
	}
	pn, err := m.node(producer.NodeID)
	if err != nil {
		return err
	}
	if producer.Slot < 0 || producer.Slot >= len(pn.outputs) {
		return fmt.Errorf("graph: outlet %d/%d: %w", producer.NodeID, producer.Slot, ErrOutletOutOfRange)
	}
	cn.Inputs[consumer.Input] = producer
	pn.outputs[producer.Slot].successors = append(pn.outputs[producer.Slot].successors, consumer)
	return nil
}

// OutletLabel returns an outlet's optional name and whether one is set.
func (m *Model[F]) OutletLabel(o Outlet) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return "", false, err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return "", false, fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	s := n.outputs[o.Slot]
	return s.label, s.hasLabel, nil
}

// SetOutletLabel names an outlet.
func (m *Model[F]) SetOutletLabel(o Outlet, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.node(o.NodeID)
	if err != nil {
		return err
	}
	if o.Slot < 0 || o.Slot >= len(n.outputs) {
		return fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
	}
	n.outputs[o.Slot].label = label
	n.outputs[o.Slot].hasLabel = true
	return nil
}

// SetInputOutlets declares the model's input signature.
func (m *Model[F]) SetInputOutlets(outlets []Outlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range outlets {
		if _, err := m.node(o.NodeID); err != nil {
			return err
		}
	}
	m.inputOutlets = append([]Outlet{}, outlets...)
	return nil
}

// SetOutputOutlets declares the model's output signature.
func (m *Model[F]) SetOutputOutlets(outlets []Outlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range outlets {
		n, err := m.node(o.NodeID)
		if err != nil {
			return err
		}
		if o.Slot < 0 || o.Slot >= len(n.outputs) {
			return fmt.Errorf("graph: outlet %d/%d: %w", o.NodeID, o.Slot, ErrOutletOutOfRange)
		}
	}
	m.outputOutlets = append([]Outlet{}, outlets...)
	return nil
}

// InputOutlets returns the model's declared input signature.
func (m *Model[F]) InputOutlets() []Outlet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Outlet{}, m.inputOutlets...)
}

// OutputOutlets returns the model's declared output signature.
func (m *Model[F]) OutputOutlets() []Outlet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Outlet{}, m.outputOutlets...)
}

// SetOutputOutletAt overwrites one slot of the model's output signature
// in place, used by patch.Apply when a shunted outlet is itself a model
// output.
func (m *Model[F]) SetOutputOutletAt(i int, o Outlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.outputOutlets) {
		return fmt.Errorf("graph: output slot %d: %w", i, ErrOutletOutOfRange)
	}
	m.outputOutlets[i] = o
	return nil
}
