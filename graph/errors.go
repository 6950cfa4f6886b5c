package graph

import "errors"

// Sentinel errors for the graph package. Callers branch with errors.Is;
// messages exist for humans, not control flow.
var (
	// ErrNodeNotFound is returned when a node ID does not exist.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrOutletOutOfRange is returned when an outlet names a slot past
	// its node's output count.
	ErrOutletOutOfRange = errors.New("graph: outlet slot out of range")

	// ErrInletOutOfRange is returned when an inlet's input index is not
	// the next sequential slot on its node (inputs are append-only).
	ErrInletOutOfRange = errors.New("graph: inlet index out of range")

	// ErrCycleDetected is returned by EvalOrder when the model is not
	// acyclic.
	ErrCycleDetected = errors.New("graph: cycle detected")

	// ErrEmptyName is returned by AddNode when given an empty name.
	ErrEmptyName = errors.New("graph: node name is empty")
)
