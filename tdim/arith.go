package tdim

import "fmt"

// Val returns the reduced literal dimension v.
func Val(v int32) Dim { return mkVal(v) }

// Sym returns the reduced symbolic dimension named by name. Stream uses
// this with StreamSymbol to build the pulsed stream-length symbol.
func Sym(name string) Dim { return mkSym(name) }

// Stream returns the canonical stream-length symbol, Sym(StreamSymbol).
func Stream() Dim { return mkSym(StreamSymbol) }

// Add returns the reduced sum of terms. Add() with no terms is Val(0).
func Add(terms ...Dim) Dim {
	if len(terms) == 0 {
		return mkVal(0)
	}
	if len(terms) == 1 {
		return terms[0].Reduce()
	}
	return mkAdd(append([]Dim{}, terms...)).Reduce()
}

// Neg returns -x, i.e. MulScalar(-1, x).
func Neg(x Dim) Dim { return MulScalar(-1, x) }

// Sub returns a - b.
func Sub(a, b Dim) Dim { return Add(a, Neg(b)) }

// MulScalar returns the reduced scalar multiple p*x.
func MulScalar(p int32, x Dim) Dim { return mkMul(p, x).Reduce() }

// Div returns the reduced floor division x/q. q must be strictly
// positive; ErrNonPositiveDivisor is returned otherwise, matching the
// algebra's u32>0 divisor grammar (spec.md §4.A).
func Div(x Dim, q uint32) (Dim, error) {
	if q == 0 {
		return Dim{}, ErrNonPositiveDivisor
	}
	return mkDiv(x, q).Reduce(), nil
}

// Mod returns x modulo q (x - q*floor(x/q)). q must be strictly positive.
func Mod(x Dim, q uint32) (Dim, error) {
	quot, err := Div(x, q)
	if err != nil {
		return Dim{}, err
	}
	return Sub(x, MulScalar(int32(q), quot)), nil
}

// DivCeil returns ceil(x/q), expressed as floor((x+q-1)/q) so it stays
// within the same floor-division algebra. q must be strictly positive.
func DivCeil(x Dim, q uint32) (Dim, error) {
	if q == 0 {
		return Dim{}, ErrNonPositiveDivisor
	}
	return Div(Add(x, Val(int32(q-1))), q)
}

// IsConstant reports whether x contains no symbol, i.e. EvalWith would
// succeed against an empty environment.
func IsConstant(x Dim) bool {
	_, err := ToInteger(x)
	return err == nil
}

// IsStream reports whether x references the canonical stream symbol.
func IsStream(x Dim) bool { return containsSymbol(x, StreamSymbol) }

func containsSymbol(x Dim, name string) bool {
	switch x.k {
	case kindVal:
		return false
	case kindSym:
		return x.sym == name
	case kindAdd:
		for _, t := range x.add {
			if containsSymbol(t, name) {
				return true
			}
		}
		return false
	case kindMul:
		return containsSymbol(*x.mulX, name)
	case kindDiv:
		return containsSymbol(*x.divX, name)
	default:
		return false
	}
}

// ToInteger returns x's value, requiring x to be fully constant.
// ErrUnboundSymbol is returned if any symbol remains.
func ToInteger(x Dim) (int32, error) { return EvalWith(x, nil) }

// EvalWith evaluates x under env, mapping each symbol name to its value.
// ErrUnboundSymbol (wrapped with the missing name) is returned if x
// references a symbol absent from env. ErrNonPositiveDivisor cannot occur
// here: every Div node in a reduced tree already carries a positive
// denominator.
func EvalWith(x Dim, env map[string]int32) (int32, error) {
	switch x.k {
	case kindVal:
		return x.val, nil
	case kindSym:
		v, ok := env[x.sym]
		if !ok {
			return 0, fmt.Errorf("tdim: eval %q: %w", x.sym, ErrUnboundSymbol)
		}
		return v, nil
	case kindAdd:
		var sum int32
		for _, t := range x.add {
			v, err := EvalWith(t, env)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum, nil
	case kindMul:
		v, err := EvalWith(*x.mulX, env)
		if err != nil {
			return 0, err
		}
		return v * x.mulK, nil
	case kindDiv:
		v, err := EvalWith(*x.divX, env)
		if err != nil {
			return 0, err
		}
		return floorDivI32(v, int32(x.divQ)), nil
	default:
		return 0, fmt.Errorf("tdim: eval: unknown node kind %d", x.k)
	}
}
