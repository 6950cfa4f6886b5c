package pipeline

import "errors"

// Sentinel errors for the pipeline package. Callers branch with
// errors.Is; messages exist for humans, not control flow.
var (
	// ErrAnalyseDidNotConverge guards the analyse stage's fixpoint loop
	// against a misbehaving InferenceRuleOp that never settles. Ordinary
	// rule sets converge in at most one round per Any component, so this
	// is a defensive ceiling, not a load-bearing termination proof.
	ErrAnalyseDidNotConverge = errors.New("pipeline: analyse did not converge")

	// ErrIncompleteFact is returned by IntoTyped when a node's inference
	// fact still has an Any component once analyse has run to a
	// fixpoint.
	ErrIncompleteFact = errors.New("pipeline: inference fact is incomplete")

	// ErrFixpointDidNotConverge is returned by the shared incorporate/
	// declutter/pulse-declutter/codegen driver when the generation
	// ceiling is reached without a clean pass. Per spec.md §4.E, an op
	// that toggles between equivalent forms forever is a bug to surface,
	// not loop on.
	ErrFixpointDidNotConverge = errors.New("pipeline: fixpoint did not converge within the generation limit")

	// ErrNotNormalized is returned by IntoNormalized when a node's op is
	// not valid in Normalized form (the precondition pulsify requires).
	ErrNotNormalized = errors.New("pipeline: op is not valid in normalized form")

	// ErrNotPulsifiable is returned by Pulsify when a node's op does not
	// implement patch.Pulsifier.
	ErrNotPulsifiable = errors.New("pipeline: op does not support pulsification")

	// ErrStoppedAtStage is returned by Run when the caller's requested
	// stop-at stage is reached; it is not a failure, and callers
	// checking errors.Is against it should treat Result as final rather
	// than partial.
	ErrStoppedAtStage = errors.New("pipeline: stopped at requested stage")
)
