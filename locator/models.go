package locator

// Maven report directory labels.
const (
	SurefireReportsDir = "surefire-reports"
	FailsafeReportsDir = "failsafe-reports"
)

// DefaultReportDirs are the report directories Maven writes into its output directory.
var DefaultReportDirs = []string{SurefireReportsDir, FailsafeReportsDir}

// Status ...
type Status int

// Report file statuses.
const (
	Located Status = iota
	Parsed
	Failed
)

func (s Status) String() string {
	switch s {
	case Located:
		return "located"
	case Parsed:
		return "parsed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReportFile is a suite report found in a report directory.
type ReportFile struct {
	Label         string
	Path          string
	CanonicalPath string
	Size          int64
	Exists        bool
	Status        Status
	Err           error
}

// Location holds the reports found in one report directory.
type Location struct {
	Label string
	Dir   string
	Files []ReportFile
}
