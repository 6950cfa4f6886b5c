package fact

// Fact is satisfied by every flavor in this package. graph.Model is
// parameterized over a concrete Fact implementation (InferenceFact,
// TypedFact, or PulsedFact), one per lowering stage.
type Fact interface {
	// SameAs reports whether other describes the same tensor
	// observationally: same datum type, rank, shape, and (for the
	// richer flavors) streaming metadata. patch.ShuntOutside refuses to
	// replace an outlet's consumers with one whose fact is not SameAs
	// the original.
	SameAs(other Fact) bool

	// String renders a short debug form, e.g. "f32x[3,S]" or "?x[?]".
	String() string
}
