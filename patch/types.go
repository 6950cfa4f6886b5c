package patch

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
)

// tapSource is the op assigned to a patch-internal node created by
// TapModel: a placeholder standing in for a value that actually comes
// from the host graph. It never survives into the host: Apply skips
// source nodes entirely when cloning, resolving their outlets through
// the incoming map instead.
type tapSource struct{}

func (tapSource) Name() string { return "TapSource" }

// Patch is a small embryonic model plus the three maps spec.md §4.D
// describes: incoming ties a patch-side source outlet to the host
// outlet it reads from, shuntOutletBy ties a host outlet to the
// patch-side outlet that should replace it for every existing consumer,
// and obliterate lists host nodes to neutralize once the patch lands.
//
// A Patch is single-use: build it with TapModel/WireNode/ShuntOutside/
// Obliterate, then consume it with Apply. Its zero value is not usable;
// construct with New.
type Patch[F fact.Fact] struct {
	embryo *graph.Model[F]

	sourceNodes map[int]bool

	incoming      map[graph.Outlet]graph.Outlet
	shuntOutletBy map[graph.Outlet]graph.Outlet
	obliterate    []int

	context string
}

// New returns an empty Patch. context is a short label used in error
// messages (typically the name of the declutter/codegen/pulsify rule
// building the patch); it may be empty.
func New[F fact.Fact](context string) *Patch[F] {
	return &Patch[F]{
		embryo:        graph.NewModel[F](),
		sourceNodes:   map[int]bool{},
		incoming:      map[graph.Outlet]graph.Outlet{},
		shuntOutletBy: map[graph.Outlet]graph.Outlet{},
		context:       context,
	}
}

// TapModel records a dependency on a host outlet and returns the
// patch-side outlet standing in for it. WireNode's inputs and
// ShuntOutside's replacement are always either a tap returned here or
// the output of a prior WireNode call.
func (p *Patch[F]) TapModel(host *graph.Model[F], hostOutlet graph.Outlet) (graph.Outlet, error) {
	hostFact, err := host.OutletFact(hostOutlet)
	if err != nil {
		return graph.Outlet{}, fmt.Errorf("patch %q: tap %v: %w", p.context, hostOutlet, err)
	}
	id, err := p.embryo.AddNode(fmt.Sprintf("tap_%d_%d", hostOutlet.NodeID, hostOutlet.Slot), tapSource{}, []F{hostFact})
	if err != nil {
		return graph.Outlet{}, err
	}
	p.sourceNodes[id] = true
	patchOutlet := graph.Outlet{NodeID: id, Slot: 0}
	p.incoming[patchOutlet] = hostOutlet
	return patchOutlet, nil
}

// WireNode adds a node to the patch embryo, wiring its inputs to
// previously returned patch-side outlets, and returns the new node's
// first output outlet (for single-output ops; use WireNodeMulti for
// more).
func (p *Patch[F]) WireNode(name string, o op.Op, outputFacts []F, inputs []graph.Outlet) (graph.Outlet, error) {
	id, err := p.wireNode(name, o, outputFacts, inputs)
	if err != nil {
		return graph.Outlet{}, err
	}
	return graph.Outlet{NodeID: id, Slot: 0}, nil
}

// WireNodeMulti is WireNode for ops with more than one output: it
// returns every output outlet of the new node, in order.
func (p *Patch[F]) WireNodeMulti(name string, o op.Op, outputFacts []F, inputs []graph.Outlet) ([]graph.Outlet, error) {
	id, err := p.wireNode(name, o, outputFacts, inputs)
	if err != nil {
		return nil, err
	}
	outlets := make([]graph.Outlet, len(outputFacts))
	for i := range outlets {
		outlets[i] = graph.Outlet{NodeID: id, Slot: i}
	}
	return outlets, nil
}

func (p *Patch[F]) wireNode(name string, o op.Op, outputFacts []F, inputs []graph.Outlet) (int, error) {
	id, err := p.embryo.AddNode(name, o, outputFacts)
	if err != nil {
		return 0, err
	}
	for i, in := range inputs {
		if err := p.embryo.AddEdge(in, graph.Inlet{NodeID: id, Input: i}); err != nil {
			return 0, fmt.Errorf("patch %q: wire %s input %d: %w", p.context, name, i, err)
		}
	}
	return id, nil
}

// ShuntOutside declares that every current consumer of hostOutlet
// should, once this patch is applied, read from patchOutlet instead.
// It fails if the two outlets' facts are not observationally the same,
// since a shunt must be transparent to everything downstream.
func (p *Patch[F]) ShuntOutside(host *graph.Model[F], hostOutlet, patchOutlet graph.Outlet) error {
	hostFact, err := host.OutletFact(hostOutlet)
	if err != nil {
		return fmt.Errorf("patch %q: shunt %v: %w", p.context, hostOutlet, err)
	}
	patchFact, err := p.embryo.OutletFact(patchOutlet)
	if err != nil {
		return fmt.Errorf("patch %q: shunt replacement %v: %w", p.context, patchOutlet, err)
	}
	if !hostFact.SameAs(patchFact) {
		return fmt.Errorf("patch %q: shunt %v with %v: %w", p.context, hostOutlet, patchOutlet, ErrFactMismatch)
	}
	p.shuntOutletBy[hostOutlet] = patchOutlet
	return nil
}

// Obliterate marks a host node to have its op replaced by dummy once
// the patch is applied, once nothing still depends on its outlets
// directly (every consumer must have been shunted elsewhere first).
func (p *Patch[F]) Obliterate(hostNodeID int) {
	p.obliterate = append(p.obliterate, hostNodeID)
}
