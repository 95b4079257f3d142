package podview

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/Taishi66/podtree/internal/domain"
)

// Index resolves a displayed pod name back to its raw record. It shares the
// snapshot map it was built from and is only valid for that render cycle.
type Index struct {
	pods map[string]*unstructured.Unstructured
}

// NewIndex wraps pods without copying it.
func NewIndex(pods map[string]*unstructured.Unstructured) *Index {
	return &Index{pods: pods}
}

// Resolve returns the raw record for id or an error matching
// domain.ErrPodNotFound.
func (ix *Index) Resolve(id string) (*unstructured.Unstructured, error) {
	if ix != nil {
		if pod, ok := ix.pods[id]; ok && pod != nil {
			return pod, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPodNotFound, id)
}
