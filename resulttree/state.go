package resulttree

// State is the outcome of a node.
type State int

// Outcome states. Cases carry one of NotRun, Passed, Skipped, Failed or Error,
// containers always carry Aggregated and derive their effective state from their children.
const (
	NotRun State = iota
	Passed
	Skipped
	Failed
	Error
	Aggregated
)

func (s State) String() string {
	switch s {
	case NotRun:
		return "not run"
	case Passed:
		return "passed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case Error:
		return "error"
	case Aggregated:
		return "aggregated"
	default:
		return "unknown"
	}
}

// IsLeafState reports whether a case node may carry s.
func (s State) IsLeafState() bool {
	return s >= NotRun && s <= Error
}

// Rollup returns the worst state among states using the priority
// Error > Failed > Skipped > Passed. It returns NotRun for an empty input.
func Rollup(states ...State) State {
	worst := NotRun
	for _, s := range states {
		if s.IsLeafState() && s > worst {
			worst = s
		}
	}
	return worst
}
