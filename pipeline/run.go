package pipeline

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/lvlath-tract/tract/fact"
	"github.com/lvlath-tract/tract/graph"
	"github.com/lvlath-tract/tract/op"
)

// Result holds every model the run produced, as far as it got. Only the
// fields for stages actually reached are non-nil.
type Result struct {
	Inference *graph.Model[fact.InferenceFact]
	Typed     *graph.Model[fact.TypedFact]
	Pulsed    *graph.Model[fact.PulsedFact]
	StoppedAt Stage
}

// Run drives inference through every stage spec.md §4.E names, up to
// and including the WithStopAt stage (StageCodegen, the full pipeline,
// by default). dummy is the op substituted into obliterated nodes by
// every patch this run applies.
//
// Reaching the requested stop-at stage before StageCodegen is reported
// via ErrStoppedAtStage wrapping a nil underlying cause; callers that
// asked to stop early should check errors.Is against it and treat
// Result as the intended final output, not a failure.
func Run(inference *graph.Model[fact.InferenceFact], dummy op.Op, opts ...Option) (*Result, error) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(cfg)
	}

	result := &Result{Inference: inference, StoppedAt: StageLoad}
	glog.V(1).Infof("pipeline: stage %s complete", StageLoad)
	if cfg.stopAt == StageLoad {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	if err := FreezeInputs(inference, cfg.frozenInputs); err != nil {
		return result, err
	}
	if err := Analyse(inference, cfg.maxGenerations, cfg.failFast); err != nil {
		return result, err
	}
	result.StoppedAt = StageAnalyse
	glog.V(1).Infof("pipeline: stage %s complete", StageAnalyse)
	if cfg.stopAt == StageAnalyse {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	if _, err := RunFixpoint("incorporate", inference, cfg.maxGenerations, dummy, DeclutterHook[fact.InferenceFact]); err != nil {
		return result, err
	}
	result.StoppedAt = StageIncorporate
	glog.V(1).Infof("pipeline: stage %s complete", StageIncorporate)
	if cfg.stopAt == StageIncorporate {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	typed, err := IntoTyped(inference)
	if err != nil {
		return result, err
	}
	result.Typed = typed
	result.StoppedAt = StageIntoTyped
	glog.V(1).Infof("pipeline: stage %s complete", StageIntoTyped)
	if cfg.stopAt == StageIntoTyped {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	if _, err := RunFixpoint("declutter", typed, cfg.maxGenerations, dummy, DeclutterHook[fact.TypedFact]); err != nil {
		return result, err
	}
	result.StoppedAt = StageDeclutter
	glog.V(1).Infof("pipeline: stage %s complete", StageDeclutter)
	if cfg.stopAt == StageDeclutter {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	if err := IntoNormalized(typed, cfg.normalizedValidator); err != nil {
		return result, err
	}
	result.StoppedAt = StageIntoNormalized
	glog.V(1).Infof("pipeline: stage %s complete", StageIntoNormalized)
	if cfg.stopAt == StageIntoNormalized {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	pulsed, err := Pulsify(typed, cfg.pulseSize)
	if err != nil {
		return result, err
	}
	result.Pulsed = pulsed
	result.StoppedAt = StagePulsify
	glog.V(1).Infof("pipeline: stage %s complete", StagePulsify)
	if cfg.stopAt == StagePulsify {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	if _, err := RunFixpoint("pulse_declutter", pulsed, cfg.maxGenerations, dummy, DeclutterHook[fact.PulsedFact]); err != nil {
		return result, err
	}
	result.StoppedAt = StagePulseDeclutter
	glog.V(1).Infof("pipeline: stage %s complete", StagePulseDeclutter)
	if cfg.stopAt == StagePulseDeclutter {
		return result, fmt.Errorf("pipeline: %w", ErrStoppedAtStage)
	}

	if _, err := RunFixpoint("codegen", pulsed, cfg.maxGenerations, dummy, CodegenHook[fact.PulsedFact]); err != nil {
		return result, err
	}
	result.StoppedAt = StageCodegen
	glog.V(1).Infof("pipeline: stage %s complete", StageCodegen)

	return result, nil
}
