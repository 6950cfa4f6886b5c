package tdim

// Reduce returns the canonical, minimal-cost form of d. It is the
// determinism contract every public constructor and combinator in this
// package relies on: Reduce(a) and Reduce(b) produce the identical tree
// whenever a and b denote the same value for every assignment of S.
//
// The algorithm runs simplify (a single deterministic bottom-up
// normalization pass) and then wiggle (a set of algebraically equivalent
// reshapes), simplifies each reshape, and keeps the lowest-cost result,
// breaking ties on canonKey so the choice never depends on map or slice
// iteration order. This departs from the original's exact
// sorted-then-min_by_key tie-break over a derived total order on raw
// trees; here the tie-break is over the already-simplified candidates'
// canonical string form, which is simpler to implement correctly in Go
// and satisfies the same contract (same math, same canonical tree),
// without relying on a hand-replicated variant ordering that nothing in
// this codebase otherwise needs.
func (d Dim) Reduce() Dim {
	best := d.simplify()
	bestCost := best.cost()

	for _, w := range best.wiggle() {
		cand := w.simplify()
		candCost := cand.cost()
		if candCost < bestCost || (candCost == bestCost && cand.canonKey() < best.canonKey()) {
			best = cand
			bestCost = candCost
		}
	}

	return best
}
