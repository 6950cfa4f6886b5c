package solver_test

import (
	"errors"
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/solver"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualsPropagatesKnownSide(t *testing.T) {
	s := solver.NewSystem()
	s.Equals(solver.In(0), solver.Out(0))

	inputs := []fact.InferenceFact{{DatumType: fact.Only(fact.F32)}}
	outputs := []fact.InferenceFact{fact.AnyInferenceFact()}

	changed, err := s.Propagate(inputs, outputs)
	require.NoError(t, err)
	assert.True(t, changed)

	dt, ok := outputs[0].DatumType.Get()
	require.True(t, ok)
	assert.Equal(t, fact.F32, dt)

	changed, err = s.Propagate(inputs, outputs)
	require.NoError(t, err)
	assert.False(t, changed, "second pass should be a fixpoint")
}

func TestEqualsRejectsConflict(t *testing.T) {
	s := solver.NewSystem()
	s.Equals(solver.In(0), solver.In(1))

	inputs := []fact.InferenceFact{
		{DatumType: fact.Only(fact.F32)},
		{DatumType: fact.Only(fact.I32)},
	}

	_, err := s.Propagate(inputs, nil)
	assert.True(t, errors.Is(err, solver.ErrConstraintViolation))
}

func TestGivenShapeFiresOnceKnown(t *testing.T) {
	s := solver.NewSystem()
	fired := 0
	s.GivenShape(solver.In(0), func(shape []tdim.Dim, inputs, outputs []fact.InferenceFact) (bool, error) {
		fired++
		outputs[0].Rank = fact.Only(len(shape))
		return true, nil
	})

	inputs := []fact.InferenceFact{{Shape: fact.Only([]tdim.Dim{tdim.Stream(), tdim.Val(3)})}}
	outputs := []fact.InferenceFact{fact.AnyInferenceFact()}

	changed, err := s.Propagate(inputs, outputs)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, fired)

	rank, ok := outputs[0].Rank.Get()
	require.True(t, ok)
	assert.Equal(t, 2, rank)
}
