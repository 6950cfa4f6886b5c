package tdim

// simplify applies one bottom-up normalization pass: flatten nested sums,
// fold literal terms, push scalar multiples onto their operand, and cancel
// division against a multiple or a sum of multiples where it divides
// evenly. It mirrors ExpNode::simplify in
// original_source/core/src/dim/tree.rs, restructured into Go's switch-on-
// kind idiom instead of Rust's enum match.
func (d Dim) simplify() Dim {
	switch d.k {
	case kindVal, kindSym:
		return d
	case kindAdd:
		return simplifyAdd(d.add)
	case kindMul:
		return simplifyMul(d.mulK, d.mulX.simplify())
	case kindDiv:
		return simplifyDiv(d.divX.simplify(), d.divQ)
	default:
		return d
	}
}

// simplifyAdd flattens nested sums, factors scalar multiples of identical
// subtrees into one Mul apiece, folds all literal terms into one, and
// collapses to a bare Val or single term when possible. The factorization
// mirrors tree.rs:123-140's HashMap<ExpNode,i32> pass: every flattened term
// is classified as either a bare literal (accumulates into the unit
// coefficient), a Mul(v, f) (accumulates v under f's key), or a bare
// subtree n (accumulates 1 under n's own key), so Add(Stream(),Stream())
// and MulScalar(2,Stream()) factor to the identical Mul(2,Stream()) node.
func simplifyAdd(terms []Dim) Dim {
	flat := make([]Dim, 0, len(terms))
	for _, t := range terms {
		s := t.simplify()
		if sub, ok := s.isAdd(); ok {
			flat = append(flat, sub...)
		} else {
			flat = append(flat, s)
		}
	}

	order := make([]Dim, 0, len(flat))
	coeff := make(map[string]int32, len(flat))
	var sum int32
	for _, t := range flat {
		if v, ok := t.isVal(); ok {
			sum += v
			continue
		}
		p, f := int32(1), t
		if p2, f2, ok := t.isMul(); ok {
			p, f = p2, f2
		}
		key := f.canonKey()
		if _, seen := coeff[key]; !seen {
			order = append(order, f)
		}
		coeff[key] += p
	}

	others := make([]Dim, 0, len(order))
	for _, f := range order {
		switch v := coeff[f.canonKey()]; {
		case v == 0:
			continue
		case v == 1:
			others = append(others, f)
		default:
			others = append(others, mkMul(v, f))
		}
	}
	sortDims(others)

	if len(others) == 0 {
		return mkVal(sum)
	}
	if len(others) == 1 && sum == 0 {
		return others[0]
	}
	// A single remaining Div term plus a literal remainder can always be
	// folded into the Div's numerator: floor(x/q)+c == floor(x+c*q, q)
	// for any integer c, since c is absorbed unchanged by the floor.
	// Folding here keeps the canonical form unique without relying on
	// wiggle to discover it, and is always value-preserving.
	if len(others) == 1 && sum != 0 {
		if x, q, ok := others[0].isDiv(); ok {
			merged := simplifyAdd([]Dim{x, mkVal(sum * int32(q))})
			return simplifyDiv(merged, q)
		}
	}
	if sum != 0 {
		others = append(others, mkVal(sum))
	}
	if len(others) == 1 {
		return others[0]
	}
	return mkAdd(others)
}

// simplifyMul folds a scalar multiple into its (already-simplified)
// operand: Mul by 0 or 1 collapses, Mul(Val) folds, Mul(Mul) combines
// coefficients, and Mul(Add) distributes.
func simplifyMul(p int32, x Dim) Dim {
	if p == 0 {
		return mkVal(0)
	}
	if p == 1 {
		return x
	}
	if v, ok := x.isVal(); ok {
		return mkVal(v * p)
	}
	if p2, x2, ok := x.isMul(); ok {
		return simplifyMul(p*p2, x2)
	}
	if terms, ok := x.isAdd(); ok {
		distributed := make([]Dim, len(terms))
		for i, t := range terms {
			distributed[i] = simplifyMul(p, t)
		}
		return simplifyAdd(distributed)
	}
	return mkMul(p, x)
}

// simplifyDiv folds floor division into an already-simplified operand,
// canceling against a Mul/Add-of-multiples coefficient wherever the gcd
// of numerator and denominator equals the denominator (exact division),
// and otherwise reducing the fraction by their gcd.
func simplifyDiv(x Dim, q uint32) Dim {
	if q == 1 {
		return x
	}
	if v, ok := x.isVal(); ok {
		return mkVal(floorDivI32(v, int32(q)))
	}
	if x2, q2, ok := x.isDiv(); ok {
		return simplifyDiv(x2, q*q2)
	}
	if p, x2, ok := x.isMul(); ok {
		g := gcdU32(absU32(p), q)
		if g > 1 {
			return simplifyDiv(simplifyMul(p/int32(g), x2), q/g)
		}
		return mkDiv(mkMul(p, x2), q)
	}
	if terms, ok := x.isAdd(); ok {
		g := terms[0].gcd()
		for _, t := range terms[1:] {
			g = gcdU32(g, t.gcd())
		}
		g = gcdU32(g, q)
		switch {
		case g == q:
			divided := make([]Dim, len(terms))
			for i, t := range terms {
				divided[i] = t.div(q)
			}
			return simplifyAdd(divided)
		case g > 1:
			divided := make([]Dim, len(terms))
			for i, t := range terms {
				divided[i] = t.div(g)
			}
			return mkDiv(simplifyAdd(divided), q/g)
		default:
			return mkDiv(mkAdd(terms), q)
		}
	}
	return mkDiv(x, q)
}

// floorDivI32 is integer division rounding toward negative infinity,
// matching Rust's div_euclid-style floor semantics used by ExpNode::Div.
func floorDivI32(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
