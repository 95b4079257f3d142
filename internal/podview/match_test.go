package podview

import (
	"testing"

	"github.com/Taishi66/podtree/internal/domain"
)

func TestMatch_PreservesSpecOrder(t *testing.T) {
	specs := []domain.ContainerSpec{{Name: "app"}, {Name: "sidecar"}, {Name: "proxy"}}
	statuses := []domain.ContainerStatus{
		{Name: "proxy", RestartCount: 3},
		{Name: "app", RestartCount: 1},
		{Name: "sidecar", RestartCount: 2},
	}

	pairs := Match(specs, statuses)
	if len(pairs) != 3 {
		t.Fatalf("len(pairs) = %d, want 3", len(pairs))
	}
	wantRestarts := []int64{1, 2, 3}
	for i, p := range pairs {
		if p.Spec.Name != specs[i].Name {
			t.Errorf("pairs[%d].Spec.Name = %q, want %q", i, p.Spec.Name, specs[i].Name)
		}
		if p.Status == nil || p.Status.Name != p.Spec.Name {
			t.Fatalf("pairs[%d].Status = %+v, want status named %q", i, p.Status, p.Spec.Name)
		}
		if p.Status.RestartCount != wantRestarts[i] {
			t.Errorf("pairs[%d].RestartCount = %d, want %d", i, p.Status.RestartCount, wantRestarts[i])
		}
	}
}

func TestMatch_MissingStatus(t *testing.T) {
	pairs := Match([]domain.ContainerSpec{{Name: "app"}, {Name: "init-late"}}, []domain.ContainerStatus{{Name: "app"}})
	if pairs[0].Status == nil {
		t.Error("app should have a status")
	}
	if pairs[1].Status != nil {
		t.Errorf("init-late status = %+v, want nil", pairs[1].Status)
	}
}

func TestMatch_DropsOrphanStatuses(t *testing.T) {
	pairs := Match(
		[]domain.ContainerSpec{{Name: "app"}},
		[]domain.ContainerStatus{{Name: "removed"}, {Name: "app"}},
	)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].Status.Name != "app" {
		t.Errorf("status = %q, want app", pairs[0].Status.Name)
	}
}

func TestMatch_FirstStatusWins(t *testing.T) {
	pairs := Match(
		[]domain.ContainerSpec{{Name: "app"}},
		[]domain.ContainerStatus{{Name: "app", RestartCount: 1}, {Name: "app", RestartCount: 9}},
	)
	if pairs[0].Status.RestartCount != 1 {
		t.Errorf("RestartCount = %d, want 1 (first match)", pairs[0].Status.RestartCount)
	}
}

func TestMatch_NoSpecs(t *testing.T) {
	pairs := Match(nil, []domain.ContainerStatus{{Name: "app"}})
	if len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0", len(pairs))
	}
}
