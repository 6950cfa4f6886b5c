// Package op defines the capability contract every operator implements:
// a name, and at least one of a stateless evaluator or a per-session
// stateful evaluator, plus the optional fact-propagation, invariant, and
// cost capabilities that do not require access to a host model (those
// that do — Declutter, Codegen, Pulsify — live in package patch, which
// already depends on graph; keeping them there avoids an import cycle
// between graph and op while still expressing them as ordinary Go
// interfaces, per spec.md §9's "capability-interface" design note).
//
// Every capability beyond the base Op is expressed as its own small
// interface; an operator advertises support for one by implementing it,
// and callers discover support with a type assertion, never a registry.
package op
