package graph

import (
	"sync"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/op"
)

// Outlet identifies a specific output of a node: (node_id, slot).
type Outlet struct {
	NodeID int
	Slot   int
}

// Inlet identifies a specific input of a node: (node_id, input_index).
type Inlet struct {
	NodeID int
	Input  int
}

// outputSlot is one of a node's ordered outputs: its current fact and
// the ordered list of inlets consuming it.
type outputSlot[F fact.Fact] struct {
	fact       F
	successors []Inlet
	label      string
	hasLabel   bool
}

// Node is one vertex of a Model: a name, an immutable op, its ordered
// inputs, and its ordered output slots. Node IDs are dense, small
// integers assigned at insertion and stable thereafter (spec.md §3).
type Node[F fact.Fact] struct {
	ID            int
	Name          string
	Op            op.Op
	Inputs        []Outlet
	ControlInputs []int

	outputs []outputSlot[F]
}

// NumOutputs returns the node's output arity.
func (n *Node[F]) NumOutputs() int { return len(n.outputs) }

// Model is the typed node/outlet container parameterized over one fact
// flavor. The zero value is not usable; construct with NewModel.
type Model[F fact.Fact] struct {
	mu sync.RWMutex

	nodes         []*Node[F]
	inputOutlets  []Outlet
	outputOutlets []Outlet
}

// NewModel returns an empty Model.
func NewModel[F fact.Fact]() *Model[F] {
	return &Model[F]{}
}
