package scheduler

import "go.trai.ch/ffbuild/internal/core/domain"

// GetTaskStatusMap returns a copy of the internal task status map.
func (s *Scheduler) GetTaskStatusMap() map[domain.InternedString]domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[domain.InternedString]domain.TaskStatus, len(s.taskStatus))
	for k, v := range s.taskStatus {
		statusMap[k] = v
	}
	return statusMap
}
