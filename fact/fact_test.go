package fact_test

import (
	"testing"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferenceFactAnyIsIncomplete(t *testing.T) {
	f := fact.AnyInferenceFact()
	assert.False(t, f.Complete())
}

func TestInferenceFactCompleteAndPromotable(t *testing.T) {
	f := fact.InferenceFact{
		DatumType: fact.Only(fact.F32),
		Rank:      fact.Only(1),
		Shape:     fact.Only([]tdim.Dim{tdim.Val(3)}),
		Value:     fact.Only(tensor.Scalar(0)), // placeholder; real facts carry matching shape
	}
	assert.True(t, f.Complete())
	typed := f.ToTyped()
	assert.Equal(t, fact.F32, typed.DatumType)
	require.Len(t, typed.Shape, 1)
	assert.True(t, typed.Shape[0].Equal(tdim.Val(3)))
}

func TestInferenceFactSameAs(t *testing.T) {
	a := fact.InferenceFact{DatumType: fact.Only(fact.F32)}
	b := fact.InferenceFact{DatumType: fact.Only(fact.F32)}
	c := fact.InferenceFact{DatumType: fact.Only(fact.I32)}
	assert.True(t, a.SameAs(b))
	assert.False(t, a.SameAs(c))
	assert.False(t, a.SameAs(fact.NewTypedFact(fact.F32)))
}

func TestTypedFactSameAsComparesShapeAndValue(t *testing.T) {
	a := fact.NewTypedFact(fact.F32, tdim.Stream(), tdim.Val(3))
	b := fact.NewTypedFact(fact.F32, tdim.Stream(), tdim.Val(3))
	c := fact.NewTypedFact(fact.F32, tdim.Stream(), tdim.Val(4))
	assert.True(t, a.SameAs(b))
	assert.False(t, a.SameAs(c))

	withVal := a.WithValue(tensor.Scalar(1))
	assert.False(t, a.SameAs(withVal))
}

func TestPulsedFactSubstitutesStreamAxis(t *testing.T) {
	base := fact.NewTypedFact(fact.F32, tdim.Stream(), tdim.Val(8))
	p := fact.NewPulsedFact(base, 0, 4, 1, tdim.Stream())
	assert.True(t, p.Shape[0].Equal(tdim.Val(4)))
	assert.Equal(t, 1, p.Delay)

	p2 := fact.NewPulsedFact(base, 0, 4, 2, tdim.Stream())
	assert.False(t, p.SameAs(p2))
}
