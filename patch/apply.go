package patch

import (
	"fmt"

	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
)

// Apply commits the patch to host in the four phases spec.md §4.D
// fixes: clone every non-source patch node into host, retarget every
// consumer of a shunted host outlet onto its replacement, wire the
// cloned nodes' inputs, and finally obliterate the listed host nodes by
// replacing their op with dummy. host's input/output arity is asserted
// unchanged after every phase: a patch never adds or removes model-level
// ports, only rewires what sits between them.
func Apply[F fact.Fact](host *graph.Model[F], p *Patch[F], dummy op.Op) error {
	inArity, outArity := len(host.InputOutlets()), len(host.OutputOutlets())
	assertArity := func(phase string) error {
		if len(host.InputOutlets()) != inArity || len(host.OutputOutlets()) != outArity {
			return fmt.Errorf("patch %q: after %s: %w", p.context, phase, ErrArityChanged)
		}
		return nil
	}

	mapping := make(map[graph.Outlet]graph.Outlet, len(p.incoming))
	for patchOutlet, hostOutlet := range p.incoming {
		mapping[patchOutlet] = hostOutlet
	}

	// Phase 1: clone every non-source patch node into the host, with
	// empty inputs. Record each clone's original patch-side inputs for
	// phase 3, and seed mapping with every new clone's output outlets.
	type pending struct {
		newID         int
		patchInputs   []graph.Outlet
		controlInputs []int
	}
	var clones []pending

	for id := 0; id < p.embryo.NodeCount(); id++ {
		if p.sourceNodes[id] {
			continue
		}
		n, err := p.embryo.Node(id)
		if err != nil {
			return err
		}
		outputFacts := make([]F, n.NumOutputs())
		for slot := range outputFacts {
			f, err := p.embryo.OutletFact(graph.Outlet{NodeID: id, Slot: slot})
			if err != nil {
				return err
			}
			outputFacts[slot] = f
		}
		newID, err := host.AddNode(n.Name, n.Op, outputFacts)
		if err != nil {
			return fmt.Errorf("patch %q: clone %s: %w", p.context, n.Name, err)
		}
		for slot := range outputFacts {
			mapping[graph.Outlet{NodeID: id, Slot: slot}] = graph.Outlet{NodeID: newID, Slot: slot}
		}
		clones = append(clones, pending{newID: newID, patchInputs: n.Inputs, controlInputs: n.ControlInputs})
	}
	if err := assertArity("clone phase"); err != nil {
		return err
	}

	// Phase 2: for each shunt, retarget every existing consumer of the
	// host outlet onto its resolved replacement, transplant the outlet's
	// label, and fix up the model's output signature if the shunted
	// outlet was itself exposed as an output.
	for hostOutlet, patchOutlet := range p.shuntOutletBy {
		resolved, ok := mapping[patchOutlet]
		if !ok {
			return fmt.Errorf("patch %q: shunt replacement %v: %w", p.context, patchOutlet, ErrUnresolvedOutlet)
		}
		successors, err := host.TakeOutletSuccessors(hostOutlet)
		if err != nil {
			return err
		}
		for _, consumer := range successors {
			if err := host.RewireInput(consumer, resolved); err != nil {
				return fmt.Errorf("patch %q: rewire %v onto %v: %w", p.context, consumer, resolved, err)
			}
		}
		if label, has, err := host.OutletLabel(hostOutlet); err == nil && has {
			_ = host.SetOutletLabel(resolved, label)
		}
		for i, out := range host.OutputOutlets() {
			if out == hostOutlet {
				if err := host.SetOutputOutletAt(i, resolved); err != nil {
					return err
				}
			}
		}
	}
	if err := assertArity("shunt phase"); err != nil {
		return err
	}

	// Phase 3: wire each clone's inputs through the now-complete mapping.
	for _, c := range clones {
		for k, patchIn := range c.patchInputs {
			hostIn, ok := mapping[patchIn]
			if !ok {
				return fmt.Errorf("patch %q: clone %d input %d (%v): %w", p.context, c.newID, k, patchIn, ErrUnresolvedOutlet)
			}
			if err := host.AddEdge(hostIn, graph.Inlet{NodeID: c.newID, Input: k}); err != nil {
				return fmt.Errorf("patch %q: wire clone %d input %d: %w", p.context, c.newID, k, err)
			}
		}
		if len(c.controlInputs) > 0 {
			hostControlInputs := make([]int, len(c.controlInputs))
			for k, ctrl := range c.controlInputs {
				// Control inputs name a node, not an outlet; slot 0 of
				// every embryo node is always present in mapping (every
				// tap and every clone registers it), so it doubles as
				// the node-identity lookup into the host namespace.
				hostOutlet, ok := mapping[graph.Outlet{NodeID: ctrl, Slot: 0}]
				if !ok {
					return fmt.Errorf("patch %q: clone %d control input %d (node %d): %w", p.context, c.newID, k, ctrl, ErrUnresolvedOutlet)
				}
				hostControlInputs[k] = hostOutlet.NodeID
			}
			if err := host.SetControlInputs(c.newID, hostControlInputs); err != nil {
				return err
			}
		}
	}
	if err := assertArity("wire phase"); err != nil {
		return err
	}

	// Phase 4: obliterate, last, so nothing upstream of an obliterated
	// node still reads its old op identity during phases 1-3.
	for _, id := range p.obliterate {
		if err := host.SetNodeOp(id, dummy); err != nil {
			return fmt.Errorf("patch %q: obliterate %d: %w", p.context, id, err)
		}
	}
	return assertArity("obliterate phase")
}
