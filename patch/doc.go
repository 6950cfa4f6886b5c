// Package patch implements localized graph surgery: a Patch is a small
// embryonic model plus three maps into a host graph.Model (incoming taps,
// shunt replacements, and nodes to obliterate), and Apply commits it to
// the host in the four-phase order spec.md §4.D requires: clone, shunt,
// wire, obliterate — each phase followed by an I/O-arity assertion so a
// bug in a declutter/codegen/pulsify hook surfaces immediately rather
// than as a silently malformed model.
//
// This package also hosts the Decluttering, Codegenner, and Pulsifier
// operator capabilities (rather than package op, which only holds
// capabilities with no host-model dependency): they return a *Patch, so
// defining them here — where Patch and graph.Model are both in scope —
// avoids a graph/op import cycle while keeping them ordinary Go
// interfaces an operator opts into by implementing.
package patch
