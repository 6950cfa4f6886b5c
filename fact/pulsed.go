package fact

import (
	"fmt"

	"github.com/lvlath-tract/tract/tdim"
)

// PulsedFact is a TypedFact plus the streaming-axis bookkeeping pulsify
// attaches: which axis streams, the chunk size along it, the delay
// buffered so far, and the (possibly symbolic) full stream length
// (spec.md §3, §4.E).
type PulsedFact struct {
	TypedFact
	Axis  int
	Pulse int
	Delay int
	Dim   tdim.Dim
}

// NewPulsedFact builds a PulsedFact from a typed fact and its streaming
// parameters. The returned shape has the pulse size substituted for the
// streamed axis so Shape describes one pulse's worth of data; dim, the
// full stream length along that axis, is kept in Dim.
func NewPulsedFact(base TypedFact, axis, pulse, delay int, dim tdim.Dim) PulsedFact {
	shape := append([]tdim.Dim{}, base.Shape...)
	if axis >= 0 && axis < len(shape) {
		shape[axis] = tdim.Val(int32(pulse))
	}
	base.Shape = shape
	return PulsedFact{TypedFact: base, Axis: axis, Pulse: pulse, Delay: delay, Dim: dim}
}

func (f PulsedFact) SameAs(other Fact) bool {
	o, ok := other.(PulsedFact)
	if !ok {
		return false
	}
	if !f.TypedFact.SameAs(o.TypedFact) {
		return false
	}
	return f.Axis == o.Axis && f.Pulse == o.Pulse && f.Delay == o.Delay && f.Dim.Equal(o.Dim)
}

func (f PulsedFact) String() string {
	return fmt.Sprintf("%s@axis=%d/pulse=%d/delay=%d/dim=%s", f.TypedFact.String(), f.Axis, f.Pulse, f.Delay, f.Dim)
}
