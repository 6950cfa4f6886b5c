package pipeline

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
	"github.com/lvlath-tract/tract/solver"
)

// Analyse runs every InferenceRuleOp's rules to a fixpoint across the
// whole model: each node's input and output InferenceFacts are the
// outlet facts already recorded on the model, so pinning one side of an
// edge is visible to both the producing and consuming node on the next
// round. A round that changes nothing ends the loop.
//
// If failFast is true (the default), the first ErrConstraintViolation
// aborts analyse immediately. If false, violations are collected and
// returned together via errors.Join once the fixpoint is reached (or
// the generation ceiling fires), so a caller can report every
// conflicting node in one pass instead of fixing them one at a time.
func Analyse(model *graph.Model[fact.InferenceFact], maxGenerations int, failFast bool) error {
	var violations []error

	for gen := 0; gen < maxGenerations; gen++ {
		changed := false

		for id := 0; id < model.NodeCount(); id++ {
			o, err := model.NodeOp(id)
			if err != nil {
				return err
			}
			ruleOp, ok := o.(op.InferenceRuleOp)
			if !ok {
				continue
			}

			n, err := model.Node(id)
			if err != nil {
				return err
			}
			inputs, err := gatherFacts(model, n.Inputs)
			if err != nil {
				return err
			}
			outputOutlets := make([]graph.Outlet, n.NumOutputs())
			for slot := range outputOutlets {
				outputOutlets[slot] = graph.Outlet{NodeID: id, Slot: slot}
			}
			outputs, err := gatherFacts(model, outputOutlets)
			if err != nil {
				return err
			}

			sys := solver.NewSystem()
			if err := ruleOp.Rules(sys, inputs, outputs); err != nil {
				return fmt.Errorf("pipeline: analyse: node %d (%s): %w", id, n.Name, err)
			}
			didChange, err := sys.Propagate(inputs, outputs)
			if err != nil {
				if errors.Is(err, solver.ErrConstraintViolation) {
					wrapped := fmt.Errorf("pipeline: analyse: node %d (%s): %w", id, n.Name, err)
					if failFast {
						return wrapped
					}
					violations = append(violations, wrapped)
					continue
				}
				return fmt.Errorf("pipeline: analyse: node %d (%s): %w", id, n.Name, err)
			}
			changed = changed || didChange

			if err := scatterFacts(model, n.Inputs, inputs); err != nil {
				return err
			}
			if err := scatterFacts(model, outputOutlets, outputs); err != nil {
				return err
			}
		}

		if !changed {
			glog.V(1).Infof("pipeline: analyse: converged after %d generation(s)", gen)
			return errors.Join(violations...)
		}
	}
	violations = append(violations, fmt.Errorf("pipeline: analyse: %w", ErrAnalyseDidNotConverge))
	return errors.Join(violations...)
}

func gatherFacts(model *graph.Model[fact.InferenceFact], outlets []graph.Outlet) ([]fact.InferenceFact, error) {
	facts := make([]fact.InferenceFact, len(outlets))
	for i, o := range outlets {
		f, err := model.OutletFact(o)
		if err != nil {
			return nil, err
		}
		facts[i] = f
	}
	return facts, nil
}

func scatterFacts(model *graph.Model[fact.InferenceFact], outlets []graph.Outlet, facts []fact.InferenceFact) error {
	for i, o := range outlets {
		if err := model.SetOutletFact(o, facts[i]); err != nil {
			return err
		}
	}
	return nil
}
