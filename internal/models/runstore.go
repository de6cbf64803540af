package models

import "sync"

// RunStore is an in-memory thread-safe registry of migration runs. Live runs
// are read from here by the API and the log streamer; durable persistence is
// a separate audit sink.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*MigrationRun
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*MigrationRun)}
}

// Add registers a run.
func (s *RunStore) Add(r *MigrationRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
}

// Get returns a run by ID, or nil if not found.
func (s *RunStore) Get(id string) *MigrationRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs[id]
}

// List returns all runs, most recent first.
func (s *RunStore) List() []*MigrationRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*MigrationRun, 0, len(s.runs))
	for _, r := range s.runs {
		result = append(result, r)
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].StartedAt.After(result[i].StartedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result
}
