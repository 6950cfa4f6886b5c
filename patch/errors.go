package patch

import "errors"

// Sentinel errors for the patch package. Callers branch with errors.Is;
// messages exist for humans, not control flow.
var (
	// ErrFactMismatch is returned by ShuntOutside when the replacement
	// outlet's fact is not SameAs the outlet it would replace.
	ErrFactMismatch = errors.New("patch: replacement fact is not the same as the shunted outlet")

	// ErrUnresolvedOutlet is returned by Apply when a wired node's input
	// refers to a patch outlet with no corresponding host outlet — a tap
	// that was never taken, or a node referenced before it was wired.
	ErrUnresolvedOutlet = errors.New("patch: patch outlet has no host-side resolution")

	// ErrArityChanged is returned by Apply when the host's input or
	// output signature length changes across a phase boundary. Apply
	// never adds or removes model-level inputs/outputs; a length change
	// indicates a bug in one of the four phases.
	ErrArityChanged = errors.New("patch: host I/O arity changed during apply")
)
