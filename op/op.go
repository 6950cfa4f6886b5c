package op

import "github.com/lvlath-tract/tract/tensor"

// Op is the minimum every operator implements: a stable, human-readable
// name used in error messages and debug printing.
type Op interface {
	Name() string
}

// Evaluator is implemented by stateless ops: eval is a pure function of
// its inputs.
type Evaluator interface {
	Op
	Eval(inputs []tensor.Tensor) ([]tensor.Tensor, error)
}

// Coster is an optional capability used by profiling tools; the core
// itself never requires it.
type Coster interface {
	Op
	Cost(inputs []tensor.Tensor) (float64, error)
}

// AxisInfo declares one axis relationship an op's invariants report:
// whether OutputAxis of a given output tracks InputAxis of a given
// input index-for-index (Elementwise), letting declutter commute the op
// past axis-manipulating neighbors (spec.md §4.C).
type AxisInfo struct {
	InputIndex  int
	InputAxis   int
	OutputIndex int
	OutputAxis  int
	Elementwise bool
}

// InvariantProvider is implemented by ops whose axis behavior declutter
// passes need to reason about.
type InvariantProvider interface {
	Op
	Invariants() []AxisInfo
}
