package domain

import "k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

// WatchEventType mirrors the watch verbs of the API server.
type WatchEventType string

const (
	EventAdded    WatchEventType = "ADDED"
	EventModified WatchEventType = "MODIFIED"
	EventDeleted  WatchEventType = "DELETED"
	EventError    WatchEventType = "ERROR"
)

// WatchEvent is a single change to a raw pod record. Events of type
// EventError carry Err and no Pod.
type WatchEvent struct {
	Type WatchEventType
	Pod  *unstructured.Unstructured
	Err  error
}
