package podview

import "github.com/Taishi66/podtree/internal/domain"

const (
	labelPending = "Pending"
	labelRunning = "Running"
	labelWarn    = "Warn"
)

// Classification is the display state derived for a container.
type Classification struct {
	Label    string
	Severity domain.Severity
	// Unrecognized is set when the status carried no known state shape.
	Unrecognized bool
}

// Classify derives the label and severity of a container. A nil status
// means the container has not reported yet.
func Classify(spec domain.ContainerSpec, status *domain.ContainerStatus) Classification {
	if status == nil {
		return Classification{Label: labelPending, Severity: domain.SeverityNeutral}
	}

	switch s := status.State.(type) {
	case domain.Running:
		return Classification{Label: labelRunning, Severity: domain.SeveritySuccess}
	case domain.Terminated:
		if s.ExitCode == 0 {
			return Classification{Label: s.Reason, Severity: domain.SeveritySuccess}
		}
		return Classification{Label: s.Reason, Severity: domain.SeverityError}
	case domain.Waiting:
		return Classification{Label: s.Reason, Severity: domain.SeverityWarning}
	default:
		// domain.UnknownState, or a status decoded without any state.
		return Classification{Label: labelWarn, Severity: domain.SeverityWarning, Unrecognized: true}
	}
}

// startedAt returns the start time carried by the container state, if any.
func startedAt(status *domain.ContainerStatus) (string, bool) {
	if status == nil {
		return "", false
	}
	var ts string
	switch s := status.State.(type) {
	case domain.Running:
		ts = s.StartedAt
	case domain.Terminated:
		ts = s.StartedAt
	case domain.Waiting:
		ts = s.StartedAt
	}
	return ts, ts != ""
}
