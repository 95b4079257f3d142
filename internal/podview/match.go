package podview

import "github.com/Taishi66/podtree/internal/domain"

// Pairing is a declared container and its reported status, if any.
type Pairing struct {
	Spec   domain.ContainerSpec
	Status *domain.ContainerStatus
}

// Match pairs each spec with the first status of the same name, keeping
// declaration order. Statuses without a spec are dropped.
func Match(specs []domain.ContainerSpec, statuses []domain.ContainerStatus) []Pairing {
	pairs := make([]Pairing, 0, len(specs))
	for _, spec := range specs {
		p := Pairing{Spec: spec}
		for i := range statuses {
			if statuses[i].Name == spec.Name {
				p.Status = &statuses[i]
				break
			}
		}
		pairs = append(pairs, p)
	}
	return pairs
}
