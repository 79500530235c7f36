package ingest

// Phase labels the three monotonic progress phases of a load.
type Phase string

const (
	PhaseTransfer Phase = "transfer"
	PhaseExtract  Phase = "extract"
	PhaseParse    Phase = "parse"
)

// ProgressFunc receives progress updates. percent is 0..100, or -1 when the
// total is unknown (indeterminate). Reporting is purely observational and has
// no effect on correctness; a nil ProgressFunc is always allowed.
type ProgressFunc func(phase Phase, percent float64, detail string)

func report(fn ProgressFunc, phase Phase, percent float64, detail string) {
	if fn != nil {
		fn(phase, percent, detail)
	}
}
