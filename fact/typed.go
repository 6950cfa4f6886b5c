package fact

import (
	"fmt"
	"strings"

	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// TypedFact is a fully resolved datum type plus a symbolic shape, per
// spec.md §3. Value is non-nil only for a known constant.
type TypedFact struct {
	DatumType DatumType
	Shape     []tdim.Dim
	Value     *tensor.Tensor
}

// NewTypedFact builds a TypedFact with no known constant value.
func NewTypedFact(dt DatumType, shape ...tdim.Dim) TypedFact {
	return TypedFact{DatumType: dt, Shape: append([]tdim.Dim{}, shape...)}
}

// WithValue returns a copy of f carrying the given constant, which must
// agree with f's shape; callers construct such facts only for Const-like
// ops where the value and declared shape are produced together.
func (f TypedFact) WithValue(v tensor.Tensor) TypedFact {
	f.Value = &v
	return f
}

// Rank returns len(Shape).
func (f TypedFact) Rank() int { return len(f.Shape) }

// IsConstant reports whether f carries a known value.
func (f TypedFact) IsConstant() bool { return f.Value != nil }

func (f TypedFact) SameAs(other Fact) bool {
	o, ok := other.(TypedFact)
	if !ok {
		return false
	}
	if f.DatumType != o.DatumType {
		return false
	}
	if !sameShape(f.Shape, o.Shape) {
		return false
	}
	if (f.Value == nil) != (o.Value == nil) {
		return false
	}
	if f.Value != nil && !f.Value.Equal(*o.Value) {
		return false
	}
	return true
}

func (f TypedFact) String() string {
	var b strings.Builder
	b.WriteString(f.DatumType.String())
	b.WriteByte('x')
	b.WriteByte('[')
	for i, d := range f.Shape {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(d.String())
	}
	b.WriteByte(']')
	if f.Value != nil {
		fmt.Fprintf(&b, "=const")
	}
	return b.String()
}
