package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Taishi66/podtree/internal/domain"
)

func int64Ptr(i int64) *int64 { return &i }
func strPtr(s string) *string { return &s }

func TestPodTreeLines_Loading(t *testing.T) {
	lines := podTreeLines(domain.Tree{State: domain.TreeLoading}, "⣾")

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want root + loading leaf", len(lines))
	}
	if lines[0].text != treeRootLabel {
		t.Errorf("root = %q, want %q", lines[0].text, treeRootLabel)
	}
	if !strings.Contains(lines[1].text, "⣾ "+loadingLabel) {
		t.Errorf("leaf = %q, want spinner and loading label", lines[1].text)
	}
	if lines[1].pod != -1 {
		t.Error("leaf must not be selectable")
	}
}

func TestPodTreeLines_LoadingIgnoresPods(t *testing.T) {
	tree := domain.Tree{State: domain.TreeLoading, Pods: []domain.PodView{{Name: "stale"}}}
	for _, l := range podTreeLines(tree, "") {
		if strings.Contains(l.text, "stale") {
			t.Error("loading tree must not show pods")
		}
	}
}

func TestPodTreeLines_Empty(t *testing.T) {
	lines := podTreeLines(domain.Tree{State: domain.TreeEmpty}, "")

	if len(lines) != 2 || !strings.Contains(lines[1].text, emptyLabel) {
		t.Errorf("lines = %+v, want root + empty leaf", lines)
	}
}

func TestPodTreeLines_Ready(t *testing.T) {
	tree := domain.Tree{State: domain.TreeReady, Pods: []domain.PodView{
		{
			Name:         "a-pod",
			NameLabel:    strPtr("web"),
			JobNameLabel: strPtr("nightly"),
			Namespace:    "default",
			Containers: []domain.ContainerView{
				{Name: "app", Image: "nginx", RestartCount: int64Ptr(3), StartedAgo: "5m ago", StateLabel: "Running", Severity: domain.SeveritySuccess},
				{Name: "sidecar", Image: "envoy", StateLabel: "Pending"},
			},
		},
		{Name: "b-pod", Namespace: "default"},
	}}

	lines := podTreeLines(tree, "")

	want := []struct {
		contains string
		pod      int
	}{
		{treeRootLabel, -1},
		{"├─ a-pod  name:web  job:nightly  ns:default", 0},
		{containersLabel, -1},
		{"app  nginx  Running  restarts:3  started 5m ago", -1},
		{"sidecar  envoy  Pending", -1},
		{"└─ b-pod  ns:default", 1},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%+v", len(lines), len(want), lines)
	}
	for i, w := range want {
		if !strings.Contains(lines[i].text, w.contains) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i].text, w.contains)
		}
		if lines[i].pod != w.pod {
			t.Errorf("line %d pod = %d, want %d", i, lines[i].pod, w.pod)
		}
	}
	if strings.Contains(lines[4].text, "restarts") || strings.Contains(lines[4].text, "started") {
		t.Error("a container without status shows neither restarts nor age")
	}
}

func TestPodHeader_OmitsMissingDecorations(t *testing.T) {
	if got := podHeader(domain.PodView{Name: "solo"}); got != "solo" {
		t.Errorf("podHeader = %q, want %q", got, "solo")
	}
}

func TestPodHeader_KeepsEmptyLabel(t *testing.T) {
	got := podHeader(domain.PodView{Name: "solo", NameLabel: strPtr("")})
	if !strings.Contains(got, "name:") || strings.Contains(got, "job:") {
		t.Errorf("podHeader = %q, want an empty name: tag and no job: tag", got)
	}
}

func TestRenderPodTree_ScrollsToCursor(t *testing.T) {
	pods := make([]domain.PodView, 30)
	for i := range pods {
		pods[i] = domain.PodView{Name: fmt.Sprintf("p%02d", i)}
	}
	lines := podTreeLines(domain.Tree{State: domain.TreeReady, Pods: pods}, "")

	out := renderPodTree(lines, 25, 80, 10)

	if !strings.Contains(out, "p25") || !strings.Contains(out, "p16") {
		t.Errorf("window should end at the cursor:\n%s", out)
	}
	if strings.Contains(out, "p15") || strings.Contains(out, "p26") {
		t.Errorf("window too large:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 10 {
		t.Errorf("rendered %d rows, want 10", got)
	}
}

func TestRenderPodTree_TopWhenCursorVisible(t *testing.T) {
	lines := podTreeLines(domain.Tree{State: domain.TreeEmpty}, "")
	out := renderPodTree(lines, 0, 80, 10)

	if !strings.HasPrefix(out, "  "+treeRootLabel) {
		t.Errorf("output should start at the root:\n%s", out)
	}
}
