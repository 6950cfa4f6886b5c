package solver

import (
	"errors"
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/tdim"
)

// ErrConstraintViolation is returned by Propagate when two unified
// components disagree (e.g. Equals(In(0), Out(0)) but the two facts
// already carry different, incompatible datum types).
var ErrConstraintViolation = errors.New("solver: constraint violation")

// rule is one accumulated propagation step; it reports whether it
// changed anything, so System.Propagate can detect a fixpoint.
type rule func(inputs, outputs []fact.InferenceFact) (bool, error)

// System is an op's inference-rule set, built once by
// InferenceRuleOp.Rules and run to a fixpoint by the pipeline's analyse
// stage.
type System struct {
	rules []rule
}

// NewSystem returns an empty rule set.
func NewSystem() *System { return &System{} }

// Propagate runs every accumulated rule once in registration order,
// returning whether any fact changed.
func (s *System) Propagate(inputs, outputs []fact.InferenceFact) (bool, error) {
	changed := false
	for _, r := range s.rules {
		c, err := r(inputs, outputs)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

// Equals registers a rule unifying a and b component-wise: whichever
// side is Any adopts the other's pinned value; if both are pinned they
// must already agree, or Propagate reports ErrConstraintViolation.
func (s *System) Equals(a, b Ref) {
	s.rules = append(s.rules, func(inputs, outputs []fact.InferenceFact) (bool, error) {
		af := a.Get(inputs, outputs)
		bf := b.Get(inputs, outputs)
		changed := false

		dt, c, err := unify(af.DatumType, bf.DatumType, func(x, y fact.DatumType) bool { return x == y })
		if err != nil {
			return false, fmt.Errorf("solver: datum type: %w", err)
		}
		af.DatumType, bf.DatumType = dt, dt
		changed = changed || c

		rk, c, err := unify(af.Rank, bf.Rank, func(x, y int) bool { return x == y })
		if err != nil {
			return false, fmt.Errorf("solver: rank: %w", err)
		}
		af.Rank, bf.Rank = rk, rk
		changed = changed || c

		sh, c, err := unify(af.Shape, bf.Shape, sameShapeValue)
		if err != nil {
			return false, fmt.Errorf("solver: shape: %w", err)
		}
		af.Shape, bf.Shape = sh, sh
		changed = changed || c

		a.Set(inputs, outputs, af)
		b.Set(inputs, outputs, bf)
		return changed, nil
	})
}

// GivenDatumType registers a rule that fires its action once ref's datum
// type is known, passing the pinned value. Actions are expected to be
// idempotent: GivenDatumType may invoke action again on a later pass if the
// system has not yet reached a fixpoint.
func (s *System) GivenDatumType(ref Ref, action func(dt fact.DatumType, inputs, outputs []fact.InferenceFact) (bool, error)) {
	s.rules = append(s.rules, func(inputs, outputs []fact.InferenceFact) (bool, error) {
		dt, ok := ref.Get(inputs, outputs).DatumType.Get()
		if !ok {
			return false, nil
		}
		return action(dt, inputs, outputs)
	})
}

// GivenShape registers a rule that fires its action once ref's shape is
// known, passing the pinned dimension vector.
func (s *System) GivenShape(ref Ref, action func(shape []tdim.Dim, inputs, outputs []fact.InferenceFact) (bool, error)) {
	s.rules = append(s.rules, func(inputs, outputs []fact.InferenceFact) (bool, error) {
		shape, ok := ref.Get(inputs, outputs).Shape.Get()
		if !ok {
			return false, nil
		}
		return action(shape, inputs, outputs)
	})
}

// unify implements Option-level equality propagation for one component:
// an Any paired with a pinned value adopts it; two pinned values must
// agree under eq.
func unify[T any](a, b fact.Option[T], eq func(x, y T) bool) (fact.Option[T], bool, error) {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case aok && bok:
		if !eq(av, bv) {
			return a, false, ErrConstraintViolation
		}
		return a, false, nil
	case aok && !bok:
		return a, true, nil
	case !aok && bok:
		return b, true, nil
	default:
		return a, false, nil
	}
}

func sameShapeValue(a, b []tdim.Dim) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
