package pipeline

// Stage names one step of the staged lowering spec.md §4.E defines.
// Stages run in increasing Stage order; WithStopAt halts Run once the
// named stage has completed.
type Stage int

const (
	StageLoad Stage = iota
	StageAnalyse
	StageIncorporate
	StageIntoTyped
	StageDeclutter
	StageIntoNormalized
	StagePulsify
	StagePulseDeclutter
	StageCodegen
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageAnalyse:
		return "analyse"
	case StageIncorporate:
		return "incorporate"
	case StageIntoTyped:
		return "into_typed"
	case StageDeclutter:
		return "declutter"
	case StageIntoNormalized:
		return "into_normalized"
	case StagePulsify:
		return "pulsify"
	case StagePulseDeclutter:
		return "pulse_declutter"
	case StageCodegen:
		return "codegen"
	default:
		return "unknown"
	}
}
