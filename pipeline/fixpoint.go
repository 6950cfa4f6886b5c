package pipeline

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
	"github.com/lvlath-tract/tract/patch"
)

// Hook asks one node whether it offers a patch, for use with
// RunFixpoint. A nil Patch means the node has nothing to contribute
// this pass.
type Hook[F fact.Fact] func(model *graph.Model[F], nodeID int) (*patch.Patch[F], error)

// DeclutterHook adapts patch.Decluttering into a Hook: nodes whose op
// does not implement it are passed over.
func DeclutterHook[F fact.Fact](model *graph.Model[F], nodeID int) (*patch.Patch[F], error) {
	o, err := model.NodeOp(nodeID)
	if err != nil {
		return nil, err
	}
	d, ok := o.(patch.Decluttering[F])
	if !ok {
		return nil, nil
	}
	return d.Declutter(model, nodeID)
}

// CodegenHook adapts patch.Codegenner into a Hook.
func CodegenHook[F fact.Fact](model *graph.Model[F], nodeID int) (*patch.Patch[F], error) {
	o, err := model.NodeOp(nodeID)
	if err != nil {
		return nil, err
	}
	c, ok := o.(patch.Codegenner[F])
	if !ok {
		return nil, nil
	}
	return c.Codegen(model, nodeID)
}

// RunFixpoint repeatedly walks model's eval_order, asking hook for a
// patch at each node. The first non-nil patch found is applied
// immediately and the pass restarts from the top of a freshly computed
// eval_order, since applying a patch can change which nodes exist and
// how they're wired. A full pass that finds nothing to do ends the
// loop. It returns the number of generations (restarts) it took, or
// ErrFixpointDidNotConverge if maxGenerations passes were exhausted
// without one clean pass.
func RunFixpoint[F fact.Fact](label string, model *graph.Model[F], maxGenerations int, dummy op.Op, hook Hook[F]) (int, error) {
	for gen := 0; gen < maxGenerations; gen++ {
		order, err := model.EvalOrder()
		if err != nil {
			return gen, fmt.Errorf("pipeline: %s: %w", label, err)
		}
		appliedAt := -1
		for _, id := range order {
			p, err := hook(model, id)
			if err != nil {
				name, _ := model.NodeName(id)
				return gen, fmt.Errorf("pipeline: %s: node %d (%s): %w", label, id, name, err)
			}
			if p == nil {
				continue
			}
			if err := patch.Apply(model, p, dummy); err != nil {
				return gen, fmt.Errorf("pipeline: %s: apply at node %d: %w", label, id, err)
			}
			appliedAt = id
			break
		}
		if appliedAt < 0 {
			glog.V(1).Infof("pipeline: %s: converged after %d generation(s)", label, gen)
			return gen, nil
		}
		glog.V(2).Infof("pipeline: %s: generation %d applied a patch at node %d", label, gen, appliedAt)
	}
	return maxGenerations, fmt.Errorf("pipeline: %s: %w", label, ErrFixpointDidNotConverge)
}
