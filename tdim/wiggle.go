package tdim

// wiggle generates a set of algebraically equivalent reshapes of d, none
// of which are assumed simplified on return: Reduce simplifies each
// candidate and keeps the cheapest. It mirrors ExpNode::wiggle in
// original_source/core/src/dim/tree.rs.
//
// Add takes the cartesian product of every term's own wiggle alternatives;
// for each combination, if any term is a Div(num, q), the combination can
// be rewritten as Div(Add(q·other_terms ++ num), q), lifting the division
// out to cover the whole sum, alongside the combination's own Add form.
// Div does the inverse: for each numerator alternative that is itself an
// Add, the terms exactly divisible by q are pulled out of the division
// (each replaced by term/q) while the remainder stays under a Div of its
// own, alongside the unlifted Div(num, q) form. Mul simply distributes
// over its operand's alternatives.
func (d Dim) wiggle() []Dim {
	switch d.k {
	case kindVal, kindSym:
		return []Dim{d}

	case kindAdd:
		perTerm := make([][]Dim, len(d.add))
		for i, t := range d.add {
			perTerm[i] = t.wiggle()
		}
		var candidates []Dim
		var visit func(i int, combo []Dim)
		visit = func(i int, combo []Dim) {
			if i == len(perTerm) {
				sub := append([]Dim{}, combo...)
				for ix, t := range sub {
					num, q, ok := t.isDiv()
					if !ok {
						continue
					}
					lifted := make([]Dim, len(sub))
					for ix2, t2 := range sub {
						if ix2 == ix {
							lifted[ix2] = num
						} else {
							lifted[ix2] = mkMul(int32(q), t2)
						}
					}
					candidates = append(candidates, mkDiv(mkAdd(lifted), q))
					break
				}
				candidates = append(candidates, mkAdd(sub))
				return
			}
			for _, w := range perTerm[i] {
				visit(i+1, append(combo, w))
			}
		}
		visit(0, make([]Dim, 0, len(perTerm)))
		return candidates

	case kindMul:
		candidates := make([]Dim, 0, len(d.mulX.wiggle()))
		for _, w := range d.mulX.wiggle() {
			candidates = append(candidates, mkMul(d.mulK, w))
		}
		return candidates

	case kindDiv:
		numAlts := d.divX.wiggle()
		candidates := make([]Dim, 0, 2*len(numAlts))
		for _, num := range numAlts {
			if terms, ok := num.isAdd(); ok {
				var integer, nonInteger []Dim
				for _, t := range terms {
					if t.gcd()%d.divQ == 0 {
						integer = append(integer, t)
					} else {
						nonInteger = append(nonInteger, t)
					}
				}
				newTerms := make([]Dim, 0, len(integer)+1)
				for _, t := range integer {
					newTerms = append(newTerms, t.div(d.divQ))
				}
				if len(nonInteger) > 0 {
					newTerms = append(newTerms, mkDiv(mkAdd(nonInteger), d.divQ))
				}
				candidates = append(candidates, mkAdd(newTerms))
			}
			candidates = append(candidates, mkDiv(num, d.divQ))
		}
		return candidates

	default:
		return []Dim{d}
	}
}
