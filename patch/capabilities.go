package patch

import (
	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
)

// Decluttering is implemented by ops that can simplify themselves (or a
// small surrounding neighborhood) given the current model state.
// Declutter returns a nil Patch to mean "no simplification applies
// here"; pipeline's declutter stage applies the first non-nil patch it
// finds in eval order, restarts the pass, and stops once a whole pass
// produces none.
type Decluttering[F fact.Fact] interface {
	op.Op
	Declutter(model *graph.Model[F], nodeID int) (*Patch[F], error)
}

// Codegenner is implemented by ops that need one final patch before a
// model is considered ready to run: typically collapsing a
// still-symbolic op into a fixed-shape kernel-ready form. Like
// Declutter, a nil Patch means no change is needed.
type Codegenner[F fact.Fact] interface {
	op.Op
	Codegen(model *graph.Model[F], nodeID int) (*Patch[F], error)
}

// Pulsifier is implemented by ops that know how to lower themselves
// from a normalized (TypedFact) model into a streaming (PulsedFact)
// one. mapping carries already-pulsified outlets keyed by their
// TypedFact-model origin; Pulsify wires whatever target-side nodes this
// op needs (consulting and extending mapping as it goes) and returns
// this op's output outlets in the target model, in order.
//
// Unlike Decluttering/Codegenner, Pulsifier is not parameterized by a
// single fact flavor: by definition it bridges two models of different
// flavors, so its signature fixes both ends rather than abstracting
// over one.
type Pulsifier interface {
	op.Op
	Pulsify(
		source *graph.Model[fact.TypedFact],
		nodeID int,
		target *graph.Model[fact.PulsedFact],
		mapping map[graph.Outlet]graph.Outlet,
		pulse int,
	) ([]graph.Outlet, error)
}
