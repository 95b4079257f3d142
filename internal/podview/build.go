// Package podview turns raw pod records into the tree shown by the pods
// view. Everything here is a pure function of its inputs: the caller reads
// the clock once and passes it in, so one render is internally consistent.
package podview

import (
	"maps"
	"slices"
	"time"

	"github.com/Taishi66/podtree/internal/domain"
	"github.com/Taishi66/podtree/internal/timestamp"
)

// Labels surfaced on pod nodes.
const (
	LabelName    = "name"
	LabelJobName = "job-name"
)

// Result is the output of one render cycle.
type Result struct {
	Tree        domain.Tree
	Index       *Index
	Diagnostics []domain.Diagnostic
}

// Build assembles the pods tree for snap at instant now. Pods are ordered
// by name and containers by declaration order, whatever order the API
// returned them in. The only error is domain.ErrMalformedPod.
func Build(snap domain.Snapshot, now time.Time) (Result, error) {
	res := Result{Index: NewIndex(snap.Pods)}

	switch {
	case !snap.Received:
		res.Tree = domain.Tree{State: domain.TreeLoading}
		return res, nil
	case len(snap.Pods) == 0:
		res.Tree = domain.Tree{State: domain.TreeEmpty}
		return res, nil
	}

	ids := slices.Sorted(maps.Keys(snap.Pods))
	pods := make([]domain.PodView, 0, len(ids))
	for _, id := range ids {
		rec, err := decodePod(id, snap.Pods[id])
		if err != nil {
			return Result{}, err
		}
		view, diags := buildPod(rec, now)
		pods = append(pods, view)
		res.Diagnostics = append(res.Diagnostics, diags...)
	}

	res.Tree = domain.Tree{State: domain.TreeReady, Pods: pods}
	return res, nil
}

// labelValue returns the value of key, or nil if the label is not set. A
// label set to the empty string is kept.
func labelValue(labels map[string]string, key string) *string {
	v, ok := labels[key]
	if !ok {
		return nil
	}
	return &v
}

func buildPod(rec podRecord, now time.Time) (domain.PodView, []domain.Diagnostic) {
	view := domain.PodView{
		Name:         rec.name,
		NameLabel:    labelValue(rec.labels, LabelName),
		JobNameLabel: labelValue(rec.labels, LabelJobName),
		Namespace:    rec.namespace,
	}

	var diags []domain.Diagnostic
	for _, p := range Match(rec.specs, rec.statuses) {
		cls := Classify(p.Spec, p.Status)
		if cls.Unrecognized {
			diags = append(diags, domain.Diagnostic{
				Kind:      domain.DiagUnrecognizedState,
				Pod:       rec.name,
				Container: p.Spec.Name,
			})
		}

		cv := domain.ContainerView{
			Name:       p.Spec.Name,
			Image:      p.Spec.Image,
			StateLabel: cls.Label,
			Severity:   cls.Severity,
		}
		if p.Status != nil {
			restarts := p.Status.RestartCount
			cv.RestartCount = &restarts
		}
		if ts, ok := startedAt(p.Status); ok {
			cv.StartedAgo = timestamp.Ago(ts, now)
		}
		view.Containers = append(view.Containers, cv)
	}
	return view, diags
}
