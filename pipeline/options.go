package pipeline

import (
	"github.com/lvlath-tract/tract/op"
	"github.com/lvlath-tract/tract/tensor"
)

// PulseOnly is implemented by ops that only make sense inside a pulsed
// model (Delay, PulsePad): IntoNormalized's default validator rejects
// any node whose op reports PulseOnly() true, since encountering one
// before pulsify means an earlier stage wired it incorrectly.
type PulseOnly interface {
	op.Op
	PulseOnly() bool
}

func defaultNormalizedValidator(o op.Op) bool {
	if po, ok := o.(PulseOnly); ok {
		return !po.PulseOnly()
	}
	return true
}

type options struct {
	stopAt              Stage
	failFast            bool
	pulseSize           int
	maxGenerations      int
	frozenInputs        map[string]tensor.Tensor
	normalizedValidator func(op.Op) bool
}

func defaultOptions() *options {
	return &options{
		stopAt:              StageCodegen,
		failFast:            true,
		pulseSize:           1,
		maxGenerations:      10000,
		frozenInputs:        map[string]tensor.Tensor{},
		normalizedValidator: defaultNormalizedValidator,
	}
}

// Option configures a Pipeline's Run, following the teacher's
// functional-options convention.
type Option func(*options)

// WithStopAt halts Run once stage has completed; Run returns
// ErrStoppedAtStage (not a failure) along with the partial Result.
func WithStopAt(stage Stage) Option {
	return func(o *options) { o.stopAt = stage }
}

// WithFailFast controls whether analyse aborts on the first
// ErrConstraintViolation (true, the default) or records the offending
// node and continues to the end of analyse (false). Either way Run stops
// after analyse if any violation was found; with false, the returned
// error joins every recorded violation.
func WithFailFast(failFast bool) Option {
	return func(o *options) { o.failFast = failFast }
}

// WithPulseSize sets the chunk size pulsify uses along each op's
// streaming axis.
func WithPulseSize(pulse int) Option {
	return func(o *options) { o.pulseSize = pulse }
}

// WithMaxGenerations bounds every fixpoint stage's restart count.
func WithMaxGenerations(n int) Option {
	return func(o *options) { o.maxGenerations = n }
}

// WithFrozenInput pins a named model input to a constant value,
// setting it on the input node's fact before analyse runs rather than
// leaving it as a runtime argument.
func WithFrozenInput(name string, value tensor.Tensor) Option {
	return func(o *options) { o.frozenInputs[name] = value }
}

// WithNormalizedValidator overrides IntoNormalized's op acceptance
// check; the default rejects any PulseOnly op.
func WithNormalizedValidator(valid func(op.Op) bool) Option {
	return func(o *options) { o.normalizedValidator = valid }
}
