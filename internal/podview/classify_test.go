package podview

import (
	"testing"

	"github.com/Taishi66/podtree/internal/domain"
)

func TestClassify(t *testing.T) {
	spec := domain.ContainerSpec{Name: "app", Image: "nginx:1.0"}
	tests := []struct {
		name   string
		status *domain.ContainerStatus
		want   Classification
	}{
		{
			"no status",
			nil,
			Classification{Label: "Pending", Severity: domain.SeverityNeutral},
		},
		{
			"running",
			&domain.ContainerStatus{Name: "app", State: domain.Running{StartedAt: "2024-01-01T00:00:00Z"}},
			Classification{Label: "Running", Severity: domain.SeveritySuccess},
		},
		{
			"completed",
			&domain.ContainerStatus{Name: "app", State: domain.Terminated{ExitCode: 0, Reason: "Completed"}},
			Classification{Label: "Completed", Severity: domain.SeveritySuccess},
		},
		{
			"failed",
			&domain.ContainerStatus{Name: "app", State: domain.Terminated{ExitCode: 1, Reason: "Error"}},
			Classification{Label: "Error", Severity: domain.SeverityError},
		},
		{
			"oom killed",
			&domain.ContainerStatus{Name: "app", State: domain.Terminated{ExitCode: 137, Reason: "OOMKilled"}},
			Classification{Label: "OOMKilled", Severity: domain.SeverityError},
		},
		{
			"crashloop",
			&domain.ContainerStatus{Name: "app", State: domain.Waiting{Reason: "CrashLoopBackOff"}},
			Classification{Label: "CrashLoopBackOff", Severity: domain.SeverityWarning},
		},
		{
			"unknown shape",
			&domain.ContainerStatus{Name: "app", State: domain.UnknownState{}},
			Classification{Label: "Warn", Severity: domain.SeverityWarning, Unrecognized: true},
		},
		{
			"no state at all",
			&domain.ContainerStatus{Name: "app"},
			Classification{Label: "Warn", Severity: domain.SeverityWarning, Unrecognized: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(spec, tt.status)
			if got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
			if again := Classify(spec, tt.status); again != got {
				t.Errorf("Classify() not idempotent: %+v then %+v", got, again)
			}
		})
	}
}

func TestStartedAt(t *testing.T) {
	tests := []struct {
		name   string
		status *domain.ContainerStatus
		want   string
		wantOK bool
	}{
		{"nil status", nil, "", false},
		{"running", &domain.ContainerStatus{State: domain.Running{StartedAt: "a"}}, "a", true},
		{"terminated", &domain.ContainerStatus{State: domain.Terminated{StartedAt: "b"}}, "b", true},
		{"waiting with start", &domain.ContainerStatus{State: domain.Waiting{StartedAt: "c", Reason: "x"}}, "c", true},
		{"waiting without start", &domain.ContainerStatus{State: domain.Waiting{Reason: "ContainerCreating"}}, "", false},
		{"running without start", &domain.ContainerStatus{State: domain.Running{}}, "", false},
		{"unknown", &domain.ContainerStatus{State: domain.UnknownState{}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := startedAt(tt.status)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("startedAt() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecodeStatePriority(t *testing.T) {
	raw := map[string]interface{}{
		"waiting":    map[string]interface{}{"reason": "PodInitializing"},
		"terminated": map[string]interface{}{"reason": "Error", "exitCode": int64(2)},
		"running":    map[string]interface{}{"startedAt": "2024-01-01T00:00:00Z"},
	}
	if _, ok := decodeState(raw).(domain.Running); !ok {
		t.Errorf("decodeState() = %T, want domain.Running", decodeState(raw))
	}

	delete(raw, "running")
	term, ok := decodeState(raw).(domain.Terminated)
	if !ok || term.ExitCode != 2 || term.Reason != "Error" {
		t.Errorf("decodeState() = %#v, want Terminated{ExitCode: 2, Reason: Error}", decodeState(raw))
	}

	if _, ok := decodeState(map[string]interface{}{"paused": map[string]interface{}{}}).(domain.UnknownState); !ok {
		t.Error("unknown key should decode to UnknownState")
	}
	if _, ok := decodeState("running").(domain.UnknownState); !ok {
		t.Error("non-object state should decode to UnknownState")
	}
}
