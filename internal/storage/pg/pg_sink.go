package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertResult = `
	INSERT INTO bench_results (
		id, run_id, configuration, suite, benchmark, trials,
		avg_time, avg_time_err, avg_gc_time, avg_gc_time_err, samples, started_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		trials = EXCLUDED.trials,
		avg_time = EXCLUDED.avg_time,
		avg_time_err = EXCLUDED.avg_time_err,
		avg_gc_time = EXCLUDED.avg_gc_time,
		avg_gc_time_err = EXCLUDED.avg_gc_time_err,
		samples = EXCLUDED.samples;
`

// Sink writes report rows into the bench_results table (see db/migrations).
type Sink struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

var _ storage.RunLoader = (*Sink)(nil)

func NewSink(pool *ConnectionPool) *Sink {
	return &Sink{pool: pool, db: pool.Pool()}
}

func (s *Sink) Save(ctx context.Context, run storage.RunInfo, table *report.Table) error {
	records := storage.Records(run, table)
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertResult,
			r.ID, r.RunID, r.Configuration, r.Suite, r.Benchmark, r.Trials,
			r.AvgTime, r.AvgTimeErr, r.AvgGCTime, r.AvgGCTimeErr, r.Samples, r.StartedAt,
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert results: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}

	slog.Info("Results stored in PostgreSQL", "run_id", run.RunID, "config", run.Configuration, "suite", run.Suite, "rows", len(records))
	return nil
}

// LoadRun returns every stored record of a run ordered by configuration, suite and benchmark.
func (s *Sink) LoadRun(ctx context.Context, runID uuid.UUID) ([]storage.Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, run_id, configuration, suite, benchmark, trials,
		       avg_time, avg_time_err, avg_gc_time, avg_gc_time_err, samples, started_at
		FROM bench_results
		WHERE run_id = $1
		ORDER BY configuration, suite, benchmark`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.Record, error) {
		var r storage.Record
		err := row.Scan(
			&r.ID, &r.RunID, &r.Configuration, &r.Suite, &r.Benchmark, &r.Trials,
			&r.AvgTime, &r.AvgTimeErr, &r.AvgGCTime, &r.AvgGCTimeErr, &r.Samples, &r.StartedAt,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan results: %w", err)
	}
	return records, nil
}

func (s *Sink) Close() {
	s.pool.Close()
}
