package domain

import "time"

// BuildInfo records the dependency digests observed after the last successful run
// of a content-checked task.
type BuildInfo struct {
	TaskName     string            `json:"task_name,omitzero"`
	Dependencies map[string]string `json:"dependencies,omitzero"`
	Timestamp    time.Time         `json:"timestamp,omitzero"`
}

// Matches reports whether the recorded digests equal the given ones exactly.
func (b *BuildInfo) Matches(digests map[string]string) bool {
	if b == nil || len(b.Dependencies) != len(digests) {
		return false
	}
	for path, sum := range digests {
		if b.Dependencies[path] != sum {
			return false
		}
	}
	return true
}
