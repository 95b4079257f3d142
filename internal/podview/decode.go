package podview

import (
	"encoding/json"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/Taishi66/podtree/internal/domain"
)

// podRecord is the subset of a raw pod the tree is built from.
type podRecord struct {
	name      string
	namespace string
	labels    map[string]string
	specs     []domain.ContainerSpec
	statuses  []domain.ContainerStatus
}

// decodePod reads a raw pod. Only a missing metadata block is an error;
// every other field is optional and decodes to its zero value.
func decodePod(id string, u *unstructured.Unstructured) (podRecord, error) {
	if u == nil {
		return podRecord{}, fmt.Errorf("%w: %s: nil record", domain.ErrMalformedPod, id)
	}
	if _, ok := u.Object["metadata"].(map[string]interface{}); !ok {
		return podRecord{}, fmt.Errorf("%w: %s: no metadata", domain.ErrMalformedPod, id)
	}

	rec := podRecord{
		name:      u.GetName(),
		namespace: u.GetNamespace(),
		labels:    u.GetLabels(),
	}

	for _, raw := range nestedSlice(u.Object, "spec", "containers") {
		c, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		rec.specs = append(rec.specs, domain.ContainerSpec{
			Name:  stringField(c, "name"),
			Image: stringField(c, "image"),
		})
	}

	for _, raw := range nestedSlice(u.Object, "status", "containerStatuses") {
		cs, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		rec.statuses = append(rec.statuses, domain.ContainerStatus{
			Name:         stringField(cs, "name"),
			RestartCount: intField(cs, "restartCount"),
			State:        decodeState(cs["state"]),
		})
	}

	return rec, nil
}

// decodeState maps the state object to a variant. When several keys are
// present the first of running, terminated, waiting wins.
func decodeState(raw interface{}) domain.ContainerState {
	state, ok := raw.(map[string]interface{})
	if !ok {
		return domain.UnknownState{}
	}
	if r, ok := state["running"].(map[string]interface{}); ok {
		return domain.Running{StartedAt: stringField(r, "startedAt")}
	}
	if t, ok := state["terminated"].(map[string]interface{}); ok {
		return domain.Terminated{
			StartedAt: stringField(t, "startedAt"),
			ExitCode:  intField(t, "exitCode"),
			Reason:    stringField(t, "reason"),
		}
	}
	if w, ok := state["waiting"].(map[string]interface{}); ok {
		return domain.Waiting{
			StartedAt: stringField(w, "startedAt"),
			Reason:    stringField(w, "reason"),
		}
	}
	return domain.UnknownState{}
}

func nestedSlice(obj map[string]interface{}, fields ...string) []interface{} {
	val, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return nil
	}
	s, _ := val.([]interface{})
	return s
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}
