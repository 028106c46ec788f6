package urlpdf

// Stage identifies a milestone in the conversion sequence.
type Stage int

const (
	StageLaunched Stage = iota + 1
	StageNavigated
	StageSettled
	StagePrinted
	StageWritten
)

// Percent returns the fixed progress value reported when s is reached.
// The values are milestones, not a measure of work done.
func (s Stage) Percent() int {
	switch s {
	case StageLaunched:
		return 20
	case StageNavigated:
		return 40
	case StageSettled:
		return 60
	case StagePrinted:
		return 80
	case StageWritten:
		return 100
	}
	return 0
}

func (s Stage) String() string {
	switch s {
	case StageLaunched:
		return "browser launched"
	case StageNavigated:
		return "page loaded"
	case StageSettled:
		return "page settled"
	case StagePrinted:
		return "pdf printed"
	case StageWritten:
		return "file written"
	}
	return "starting"
}

// Progress is reported to a [ProgressFunc] each time a Stage is reached.
type Progress struct {
	Stage   Stage
	Percent int
}

// ProgressFunc receives milestones in order on the converting goroutine.
// It must not block for long.
type ProgressFunc func(Progress)
