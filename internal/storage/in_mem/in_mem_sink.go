package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/google/uuid"
)

type InMemSink struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]storage.Record
	order       []uuid.UUID
}

var _ storage.RunLoader = (*InMemSink)(nil)

func NewInMemSink() *InMemSink {
	return &InMemSink{
		storage: make(map[uuid.UUID]storage.Record),
	}
}

func (s *InMemSink) Save(ctx context.Context, run storage.RunInfo, table *report.Table) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, rec := range storage.Records(run, table) {
		if _, ok := s.storage[rec.ID]; !ok {
			s.order = append(s.order, rec.ID)
		}
		s.storage[rec.ID] = rec
	}
	slog.Debug("Saved report to in-memory sink", "config", run.Configuration, "suite", run.Suite, "rows", table.Len())
	return nil
}

// Records returns stored records in insertion order.
func (s *InMemSink) Records() []storage.Record {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]storage.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.storage[id])
	}
	return out
}

func (s *InMemSink) LoadRun(ctx context.Context, runID uuid.UUID) ([]storage.Record, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var out []storage.Record
	for _, id := range s.order {
		if rec := s.storage[id]; rec.RunID == runID {
			out = append(out, rec)
		}
	}
	storage.SortRecords(out)
	return out, nil
}

func (s *InMemSink) Close() {}
