// Package fact implements the three fact flavors carried on every graph
// outlet: inference facts (partial, independently-optional components),
// typed facts (fully resolved datum type and symbolic shape), and pulsed
// facts (a typed fact plus its streaming-axis bookkeeping).
//
// A Fact's SameAs is the "observationally equal" check patch.ShuntOutside
// requires before it will let one outlet's consumers be rewired onto
// another: two facts that disagree about datum type, rank, shape, or
// streaming metadata can never be swapped for one another without
// changing what the graph computes.
package fact
