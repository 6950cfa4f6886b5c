package fact

import (
	"fmt"
	"strings"

	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// InferenceFact is the partial fact flavor a parser populates: each
// component is independently Any or pinned, per spec.md §3.
type InferenceFact struct {
	DatumType Option[DatumType]
	Rank      Option[int]
	Shape     Option[[]tdim.Dim]
	Value     Option[tensor.Tensor]
}

// AnyInferenceFact returns a fact with every component unconstrained.
func AnyInferenceFact() InferenceFact { return InferenceFact{} }

// Complete reports whether every component needed to build a TypedFact
// is pinned, the precondition pipeline.IntoTyped requires before
// promoting a node. Value is not required: most nodes are not known
// constants, and TypedFact.Value is nil for exactly that reason.
func (f InferenceFact) Complete() bool {
	return !f.DatumType.IsAny() && !f.Rank.IsAny() && !f.Shape.IsAny()
}

// ToTyped promotes a complete InferenceFact to a TypedFact. Callers must
// check Complete first; ToTyped itself trusts its precondition and is
// only ever called from pipeline.IntoTyped after that check.
func (f InferenceFact) ToTyped() TypedFact {
	dt, _ := f.DatumType.Get()
	shape, _ := f.Shape.Get()
	var value *tensor.Tensor
	if v, ok := f.Value.Get(); ok {
		value = &v
	}
	return TypedFact{DatumType: dt, Shape: append([]tdim.Dim{}, shape...), Value: value}
}

func (f InferenceFact) SameAs(other Fact) bool {
	o, ok := other.(InferenceFact)
	if !ok {
		return false
	}
	if !sameAsOption(f.DatumType, o.DatumType, func(a, b DatumType) bool { return a == b }) {
		return false
	}
	if !sameAsOption(f.Rank, o.Rank, func(a, b int) bool { return a == b }) {
		return false
	}
	if !sameAsOption(f.Shape, o.Shape, sameShape) {
		return false
	}
	if !sameAsOption(f.Value, o.Value, func(a, b tensor.Tensor) bool { return a.Equal(b) }) {
		return false
	}
	return true
}

func sameShape(a, b []tdim.Dim) bool {
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

func (f InferenceFact) String() string {
	var b strings.Builder
	if dt, ok := f.DatumType.Get(); ok {
		b.WriteString(dt.String())
	} else {
		b.WriteByte('?')
	}
	b.WriteByte('x')
	if shape, ok := f.Shape.Get(); ok {
		b.WriteByte('[')
		for i, d := range shape {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(d.String())
		}
		b.WriteByte(']')
	} else if rank, ok := f.Rank.Get(); ok {
		fmt.Fprintf(&b, "[rank=%d]", rank)
	} else {
		b.WriteString("[?]")
	}
	return b.String()
}
