package domain

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ClusterInfo provides metadata about the current cluster connection.
type ClusterInfo interface {
	GetContext() string
	GetServerURL() string
	GetNamespace() string
	SetNamespace(ns string)
	Reconnect() error
}

// PodRepository provides read access to raw pod records, keyed by pod name.
type PodRepository interface {
	ListPods(ctx context.Context) (map[string]*unstructured.Unstructured, error)
	WatchPods(ctx context.Context) (<-chan WatchEvent, error)
}

// PodSource is the primary port combining cluster metadata and pod access.
// The TUI depends on this interface, not on concrete implementations.
type PodSource interface {
	ClusterInfo
	PodRepository
}
