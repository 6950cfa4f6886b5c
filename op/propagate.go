package op

import (
	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/solver"
)

// InferenceRuleOp is implemented by ops that participate in the
// inference-time constraint system: Rules registers this op's
// relationships between its input and output facts into s, to be run to
// a fixpoint by the pipeline's analyse stage (spec.md §4.C).
type InferenceRuleOp interface {
	Op
	Rules(s *solver.System, inputs, outputs []fact.InferenceFact) error
}

// TypedFactPropagator is implemented by ops that can compute their
// concrete output facts once every input fact is fully typed.
type TypedFactPropagator interface {
	Op
	OutputFacts(inputs []fact.TypedFact) ([]fact.TypedFact, error)
}

// PulsedFactPropagator is implemented by ops that know how their pulsed
// output facts (axis, pulse, delay, dim) relate to their pulsed inputs.
// Pulsifier (package patch) is the companion capability that actually
// wires the node; PulsedOutputFacts must agree with what it wires.
type PulsedFactPropagator interface {
	Op
	PulsedOutputFacts(inputs []fact.PulsedFact) ([]fact.PulsedFact, error)
}
