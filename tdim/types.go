package tdim

import (
	"sort"
	"strconv"
	"strings"
)

// kind discriminates the five node shapes of the algebra described in
// spec.md §4.A: E ::= Val(i32) | Sym(c) | Add([E]) | Mul(i32, E) | Div(E, u32>0).
type kind uint8

const (
	kindVal kind = iota
	kindSym
	kindAdd
	kindMul
	kindDiv
)

// StreamSymbol is the canonical name of the single streaming symbol S
// used throughout the pulsed fact machinery. The algebra is not limited
// to this name (Sym accepts any identifier), but every pulsification
// helper in this module names its stream length with StreamSymbol.
const StreamSymbol = "S"

// Dim is an immutable node in the symbolic dimension algebra. Every Dim
// returned by an exported constructor or combinator in this package is
// already reduced (see reduce.go): two Dims obtained this way are equal
// under integer semantics if and only if Equal reports true.
//
// Dim is a value type safe to copy and compare structurally; it must
// never be mutated in place (none of its methods do).
type Dim struct {
	k kind

	val int32  // kindVal
	sym string // kindSym

	add []Dim // kindAdd, len >= 2 once reduced (collapsed otherwise)

	mulK int32 // kindMul coefficient
	mulX *Dim  // kindMul operand

	divX *Dim   // kindDiv numerator
	divQ uint32 // kindDiv denominator, > 0
}

// mkVal builds a raw (not necessarily further reducible) literal node.
func mkVal(v int32) Dim { return Dim{k: kindVal, val: v} }

// mkSym builds a raw symbol node.
func mkSym(name string) Dim { return Dim{k: kindSym, sym: name} }

// mkAdd builds a raw n-ary sum node. Callers are responsible for any
// flattening; mkAdd itself performs none.
func mkAdd(terms []Dim) Dim { return Dim{k: kindAdd, add: terms} }

// mkMul builds a raw scalar-multiple node.
func mkMul(p int32, x Dim) Dim { return Dim{k: kindMul, mulK: p, mulX: &x} }

// mkDiv builds a raw floor-division node. q must be > 0; callers validate
// this at the public API boundary (see arith.go), never here.
func mkDiv(x Dim, q uint32) Dim { return Dim{k: kindDiv, divX: &x, divQ: q} }

func (d Dim) isVal() (int32, bool) {
	if d.k == kindVal {
		return d.val, true
	}
	return 0, false
}

func (d Dim) isAdd() ([]Dim, bool) {
	if d.k == kindAdd {
		return d.add, true
	}
	return nil, false
}

func (d Dim) isMul() (int32, Dim, bool) {
	if d.k == kindMul {
		return d.mulK, *d.mulX, true
	}
	return 0, Dim{}, false
}

func (d Dim) isDiv() (Dim, uint32, bool) {
	if d.k == kindDiv {
		return *d.divX, d.divQ, true
	}
	return Dim{}, 0, false
}

// cost estimates how "expensive" a tree is, used by Reduce to choose the
// smallest of several algebraically equivalent forms. Sym|Val=1,
// Add=2·Σcost, Mul=2·cost, Div=3·cost, per spec.md §4.A.
func (d Dim) cost() int {
	switch d.k {
	case kindVal, kindSym:
		return 1
	case kindAdd:
		sum := 0
		for _, t := range d.add {
			sum += t.cost()
		}
		return 2 * sum
	case kindMul:
		return 2 * d.mulX.cost()
	case kindDiv:
		return 3 * d.divX.cost()
	default:
		return 1
	}
}

// gcd is the structural greatest common divisor used by simplify's Div
// reduction to cancel a Mul/Div pair. It mirrors ExpNode::gcd in
// original_source/core/src/dim/tree.rs.
func (d Dim) gcd() uint32 {
	switch d.k {
	case kindVal:
		return absU32(d.val)
	case kindSym:
		return 1
	case kindAdd:
		g := d.add[0].gcd()
		for _, t := range d.add[1:] {
			g = gcdU32(g, t.gcd())
		}
		return g
	case kindMul:
		return d.mulX.gcd() * absU32(d.mulK)
	case kindDiv:
		g := d.divX.gcd()
		if g%d.divQ == 0 {
			return g / d.divQ
		}
		return 1
	default:
		return 1
	}
}

// div performs an exact structural division by d, assumed (by the caller,
// via gcd) to divide evenly everywhere it is applied. It mirrors
// ExpNode::div; like the original it is only ever called where evenness
// has already been established, so the Sym arm is unreachable in
// practice and panics if ever hit, exactly as the Rust source does.
func (d Dim) div(by uint32) Dim {
	if by == 1 {
		return d
	}
	switch d.k {
	case kindVal:
		return mkVal(d.val / int32(by))
	case kindSym:
		panic("tdim: div() invariant violated: symbol not evenly divisible")
	case kindAdd:
		terms := make([]Dim, len(d.add))
		for i, t := range d.add {
			terms[i] = t.div(by)
		}
		return mkAdd(terms)
	case kindMul:
		if d.mulK == int32(by) {
			return *d.mulX
		}
		g := gcdU32(absU32(d.mulK), by)
		return mkMul(d.mulK/int32(g), d.mulX.div(by/g))
	case kindDiv:
		return mkDiv(*d.divX, d.divQ*by)
	default:
		return d
	}
}

// String renders a human-readable, deterministic form of d, also used
// (via canonKey) as the equality/sort key for already-reduced Dims.
func (d Dim) String() string {
	switch d.k {
	case kindVal:
		return strconv.FormatInt(int64(d.val), 10)
	case kindSym:
		return d.sym
	case kindAdd:
		parts := make([]string, len(d.add))
		for i, t := range d.add {
			parts[i] = t.String()
		}
		return strings.Join(parts, "+")
	case kindMul:
		return strconv.FormatInt(int64(d.mulK), 10) + "." + d.mulX.String()
	case kindDiv:
		return "(" + d.divX.String() + ")/" + strconv.FormatUint(uint64(d.divQ), 10)
	default:
		return "?"
	}
}

// canonKey is the key used to compare and order reduced Dims. It is
// currently just String(), but kept as a separate name so the ordering
// policy can change without touching call sites.
func (d Dim) canonKey() string { return d.String() }

// Equal reports whether d and other denote the same integer value for
// every assignment of their symbols. Both operands must be results of
// this package's constructors/combinators (i.e. already reduced);
// Equal itself does not reduce, it only compares canonical forms.
func (d Dim) Equal(other Dim) bool { return d.canonKey() == other.canonKey() }

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func absU32(v int32) uint32 { return uint32(absI32(v)) }

func gcdU32(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// sortDims sorts a slice of Dims by canonKey, used where a deterministic
// order over candidate forms is needed (e.g. tie-breaking in Reduce).
func sortDims(ds []Dim) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].canonKey() < ds[j].canonKey() })
}
