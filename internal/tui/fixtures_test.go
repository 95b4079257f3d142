package tui

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/Taishi66/podtree/internal/domain"
	"github.com/Taishi66/podtree/internal/metrics"
)

var fixedNow = time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC)

// rawPod builds a pod with one running container named app.
func rawPod(name string, labels map[string]interface{}) *unstructured.Unstructured {
	meta := map[string]interface{}{"name": name, "namespace": "default"}
	if labels != nil {
		meta["labels"] = labels
	}
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   meta,
		"spec": map[string]interface{}{
			"containers": []interface{}{
				map[string]interface{}{"name": "app", "image": "nginx:1.25"},
			},
		},
		"status": map[string]interface{}{
			"containerStatuses": []interface{}{
				map[string]interface{}{
					"name":         "app",
					"restartCount": int64(2),
					"state": map[string]interface{}{
						"running": map[string]interface{}{"startedAt": "2024-01-01T00:00:00Z"},
					},
				},
			},
		},
	}}
}

// oddPod has a container whose state carries no known shape.
func oddPod(name string) *unstructured.Unstructured {
	pod := rawPod(name, nil)
	statuses := pod.Object["status"].(map[string]interface{})["containerStatuses"].([]interface{})
	statuses[0].(map[string]interface{})["state"] = map[string]interface{}{}
	return pod
}

func podMap(pods ...*unstructured.Unstructured) map[string]*unstructured.Unstructured {
	m := make(map[string]*unstructured.Unstructured, len(pods))
	for _, p := range pods {
		m[p.GetName()] = p
	}
	return m
}

type testEnv struct {
	mock    *domain.MockSource
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func newTestModel(pods ...*unstructured.Unstructured) (Model, *testEnv) {
	env := &testEnv{
		mock: &domain.MockSource{
			ContextVal:   "test-ctx",
			ServerURLVal: "https://api.test:6443",
			NamespaceVal: "default",
			Pods:         podMap(pods...),
		},
		metrics: metrics.New(),
		logs:    &bytes.Buffer{},
	}

	factory := func() (domain.PodSource, error) {
		return env.mock, nil
	}

	m := NewModel(env.mock, factory, nil,
		WithLogger(slog.New(slog.NewTextHandler(env.logs, nil))),
		WithMetrics(env.metrics),
		WithClock(func() time.Time { return fixedNow }),
	)
	m.width = 120
	m.height = 30
	return m, env
}

// loaded feeds the initial list through Update.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.loadPods()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// counterValue reads a counter from the registry. labelValue selects a
// labelled series; empty selects the unlabelled one.
func counterValue(t *testing.T, mt *metrics.Metrics, name, labelValue string) float64 {
	t.Helper()
	families, err := mt.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if labelValue == "" && len(metric.GetLabel()) == 0 {
				return metric.GetCounter().GetValue()
			}
			for _, l := range metric.GetLabel() {
				if l.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
