package domain

import "k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

// Severity drives the display emphasis of a container state.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityError
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "neutral"
	}
}

// ContainerSpec is a container as declared in a pod spec.
type ContainerSpec struct {
	Name  string
	Image string
}

// ContainerState is one of Running, Terminated, Waiting or UnknownState.
type ContainerState interface {
	isContainerState()
}

type Running struct {
	StartedAt string
}

type Terminated struct {
	StartedAt string
	ExitCode  int64
	Reason    string
}

type Waiting struct {
	StartedAt string
	Reason    string
}

// UnknownState is a state record the decoder could not recognize.
type UnknownState struct{}

func (Running) isContainerState()      {}
func (Terminated) isContainerState()   {}
func (Waiting) isContainerState()      {}
func (UnknownState) isContainerState() {}

// ContainerStatus is the runtime status reported for a container.
type ContainerStatus struct {
	Name         string
	RestartCount int64
	State        ContainerState
}

// ContainerView is the render-ready form of a single container.
type ContainerView struct {
	Name         string
	Image        string
	RestartCount *int64 // nil when no status was reported
	StartedAgo   string // empty when no start time is known
	StateLabel   string
	Severity     Severity
}

// PodView is the render-ready form of a pod.
type PodView struct {
	Name         string
	NameLabel    *string // nil when the pod has no "name" label
	JobNameLabel *string // nil when the pod has no "job-name" label
	Namespace    string
	Containers   []ContainerView
}

// TreeState selects what the root of the tree displays.
type TreeState int

const (
	TreeLoading TreeState = iota
	TreeEmpty
	TreeReady
)

// Tree is the root "Pods" node of the status view.
type Tree struct {
	State TreeState
	Pods  []PodView
}

// Snapshot is the input of one render cycle. Pods is keyed by pod name.
type Snapshot struct {
	Pods     map[string]*unstructured.Unstructured
	Received bool
}

// DiagnosticKind identifies a non-fatal anomaly found while building a tree.
type DiagnosticKind int

const (
	DiagUnrecognizedState DiagnosticKind = iota
)

// Diagnostic reports an API shape the builder did not understand.
type Diagnostic struct {
	Kind      DiagnosticKind
	Pod       string
	Container string
}
