package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/es"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/pg"
)

// NewSink creates a storage.Sink based on the sink type
func NewSink(ctx context.Context, cfg *SinkConfig) (storage.Sink, error) {
	if cfg == nil {
		return storage.NopSink{}, nil
	}

	switch cfg.Type {
	case storage.None, "":
		return storage.NopSink{}, nil

	case storage.Memory:
		return in_mem.NewInMemSink(), nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewSink(pool), nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		return es.NewSink(ctx, *cfg.Es)

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedSink), cfg.Type)
	}
}
