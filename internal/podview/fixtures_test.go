package podview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

var (
	epoch    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixedNow = time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC)
)

func toRaw(t *testing.T, pod *corev1.Pod) *unstructured.Unstructured {
	t.Helper()
	obj, err := runtime.DefaultUnstructuredConverter.ToUnstructured(pod)
	require.NoError(t, err)
	return &unstructured.Unstructured{Object: obj}
}

func newPod(name string, containers []corev1.Container, statuses ...corev1.ContainerStatus) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       corev1.PodSpec{Containers: containers},
		Status:     corev1.PodStatus{ContainerStatuses: statuses},
	}
}

func runningStatus(name string, restarts int32, started time.Time) corev1.ContainerStatus {
	return corev1.ContainerStatus{
		Name:         name,
		RestartCount: restarts,
		State: corev1.ContainerState{
			Running: &corev1.ContainerStateRunning{StartedAt: metav1.NewTime(started)},
		},
	}
}

func snapshotOf(t *testing.T, pods ...*corev1.Pod) map[string]*unstructured.Unstructured {
	t.Helper()
	m := make(map[string]*unstructured.Unstructured, len(pods))
	for _, p := range pods {
		m[p.Name] = toRaw(t, p)
	}
	return m
}

func int64Ptr(i int64) *int64 { return &i }
