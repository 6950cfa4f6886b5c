package tdim

import "errors"

// Sentinel errors for the tdim package. Callers branch on these with
// errors.Is; messages are never relied upon for control flow.
var (
	// ErrUnboundSymbol is returned by EvalWith/ToInteger when the
	// expression still references a symbol absent from the environment.
	ErrUnboundSymbol = errors.New("tdim: unbound symbol")

	// ErrNonPositiveDivisor is returned by Div/Mod/DivCeil when the
	// divisor is zero (division and modulo require a strictly positive
	// u32 divisor per the algebra's grammar).
	ErrNonPositiveDivisor = errors.New("tdim: divisor must be positive")
)
