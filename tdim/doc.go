// Package tdim implements the symbolic-dimension algebra used by every
// fact flavor in this module to describe tensor shapes that may depend on
// an unresolved streaming length.
//
// A Dim is a small expression tree over one symbol, S (the stream length),
// and int32 literals, closed under addition, scalar multiplication, and
// floor division by a positive integer:
//
//	E ::= Val(i32) | Sym(S) | Add([E]) | Mul(i32, E) | Div(E, u32>0)
//
// Every constructor and combinator in this package returns a reduced form,
// so two Dims are Equal if and only if their canonical trees coincide.
// Reduction runs in two passes (Simplify then Wiggle); see reduce.go for
// the contract and dim_test.go for the determinism corpus this package is
// held to.
//
// tdim has no dependency on graph, fact, or op: it is pure arithmetic, and
// every other package in this module treats it as a leaf.
package tdim
