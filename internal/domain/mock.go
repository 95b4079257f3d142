package domain

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// MockSource implements PodSource for testing.
type MockSource struct {
	ContextVal   string
	ServerURLVal string
	NamespaceVal string

	Pods map[string]*unstructured.Unstructured

	// Watch
	WatchPodsCh <-chan WatchEvent

	// Error injection
	ListPodsErr  error
	WatchPodsErr error
	ReconnectErr error

	// Call tracking
	ListPodsCalls  int
	WatchPodsCalls int
	ReconnectCalls int
}

// Compile-time check.
var _ PodSource = (*MockSource)(nil)

func (m *MockSource) GetContext() string     { return m.ContextVal }
func (m *MockSource) GetServerURL() string   { return m.ServerURLVal }
func (m *MockSource) GetNamespace() string   { return m.NamespaceVal }
func (m *MockSource) SetNamespace(ns string) { m.NamespaceVal = ns }

func (m *MockSource) Reconnect() error {
	m.ReconnectCalls++
	return m.ReconnectErr
}

func (m *MockSource) ListPods(_ context.Context) (map[string]*unstructured.Unstructured, error) {
	m.ListPodsCalls++
	if m.ListPodsErr != nil {
		return nil, m.ListPodsErr
	}
	return m.Pods, nil
}

func (m *MockSource) WatchPods(_ context.Context) (<-chan WatchEvent, error) {
	m.WatchPodsCalls++
	if m.WatchPodsErr != nil {
		return nil, m.WatchPodsErr
	}
	return m.WatchPodsCh, nil
}
