package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/manuelarcer/mlip-platform/internal/bench/report"
)

// MemoryStore is a ReportStore kept in process memory. Useful for tests
// and for runs where no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*report.Report
	order   []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[uuid.UUID]*report.Report)}
}

func (s *MemoryStore) Save(_ context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[r.Meta.RunID]; !exists {
		s.order = append(s.order, r.Meta.RunID)
	}
	s.reports[r.Meta.RunID] = r
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.order))
	// Newest first, matching the SQL store's ordering.
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.reports[s.order[i]]
		summaries = append(summaries, Summary{
			RunID:       r.Meta.RunID,
			Input:       r.Input,
			GeneratedAt: r.Meta.Timestamp,
			Backends:    len(r.Results),
			Succeeded:   r.SuccessCount(),
		})
	}
	return summaries, nil
}

func (s *MemoryStore) Get(_ context.Context, runID uuid.UUID) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

var _ ReportStore = (*MemoryStore)(nil)
