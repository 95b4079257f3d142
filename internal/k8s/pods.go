package k8s

import (
	"context"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/Taishi66/podtree/internal/domain"
)

var podsResource = schema.GroupVersionResource{Version: "v1", Resource: "pods"}

// listOptions caps a list at limit items; 0 lists everything.
func listOptions(limit int64) metav1.ListOptions {
	return metav1.ListOptions{Limit: limit}
}

// ListPods returns the raw pod records of the current namespace keyed by
// pod name.
func (c *Client) ListPods(ctx context.Context) (map[string]*unstructured.Unstructured, error) {
	list, err := c.dynamic.Resource(podsResource).Namespace(c.namespace).List(ctx, listOptions(0))
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}

	pods := make(map[string]*unstructured.Unstructured, len(list.Items))
	for i := range list.Items {
		pod := &list.Items[i]
		pods[pod.GetName()] = pod
	}
	return pods, nil
}

func (c *Client) WatchPods(ctx context.Context) (<-chan domain.WatchEvent, error) {
	watcher, err := c.dynamic.Resource(podsResource).Namespace(c.namespace).Watch(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	ch := make(chan domain.WatchEvent)
	go func() {
		defer close(ch)
		defer watcher.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.ResultChan():
				if !ok {
					return
				}
				evt, ok := c.watchEvent(event)
				if !ok {
					continue
				}
				select {
				case ch <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// watchEvent maps a raw watch event to a domain event. Bookmarks and objects
// that are not pods are skipped.
func (c *Client) watchEvent(event watch.Event) (domain.WatchEvent, bool) {
	switch event.Type {
	case watch.Bookmark:
		return domain.WatchEvent{}, false
	case watch.Error:
		return domain.WatchEvent{
			Type: domain.EventError,
			Err:  classifyError(k8serrors.FromObject(event.Object), c.serverURL),
		}, true
	}
	pod, ok := event.Object.(*unstructured.Unstructured)
	if !ok {
		return domain.WatchEvent{}, false
	}
	return domain.WatchEvent{Type: domain.WatchEventType(string(event.Type)), Pod: pod}, true
}
