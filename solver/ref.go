package solver

import "github.com/lvlath-tract/tract/fact"

// Endpoint names which side of an op a Ref addresses.
type Endpoint uint8

const (
	// EndpointInput addresses one of the op's input facts.
	EndpointInput Endpoint = iota
	// EndpointOutput addresses one of the op's output facts.
	EndpointOutput
)

// Ref is a variable handle into one of an op's input or output facts,
// e.g. "inputs[0]" or "outputs[1]" in spec.md §4.C's terms.
type Ref struct {
	end Endpoint
	idx int
}

// In returns a handle to inputs[i].
func In(i int) Ref { return Ref{end: EndpointInput, idx: i} }

// Out returns a handle to outputs[i].
func Out(i int) Ref { return Ref{end: EndpointOutput, idx: i} }

func (r Ref) slice(inputs, outputs []fact.InferenceFact) []fact.InferenceFact {
	if r.end == EndpointInput {
		return inputs
	}
	return outputs
}

// Get returns the fact r addresses.
func (r Ref) Get(inputs, outputs []fact.InferenceFact) fact.InferenceFact {
	return r.slice(inputs, outputs)[r.idx]
}

// Set overwrites the fact r addresses.
func (r Ref) Set(inputs, outputs []fact.InferenceFact, f fact.InferenceFact) {
	r.slice(inputs, outputs)[r.idx] = f
}
