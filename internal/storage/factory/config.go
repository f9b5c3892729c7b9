package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/es"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/pg"
	"github.com/DjordjeVuckovic/vm-bench/pkg/stringsutil"
)

type SinkConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

var validTypes = []storage.Type{storage.None, storage.Memory, storage.PG, storage.ES}

// LoadEnv reads the sink configuration from SINK_TYPE and the backend variables.
// An unset SINK_TYPE selects the none sink.
func LoadEnv() (*SinkConfig, error) {
	sinkType := storage.Type(os.Getenv("SINK_TYPE"))
	if sinkType == "" {
		slog.Debug("SINK_TYPE is not set, results are only written to files")
		sinkType = storage.None
	}

	switch sinkType {
	case storage.ES:
		esCfg := &es.ClientConfig{
			Addresses: stringsutil.SplitTrim(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(esCfg.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}
		return &SinkConfig{Type: sinkType, Es: esCfg}, nil
	case storage.PG:
		pgCfg := &pg.PoolConfig{ConnStr: os.Getenv("PG_CONNECTION_STRING")}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		if v := os.Getenv("PG_MAX_CONNS"); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n <= 0 {
				slog.Error("Invalid PG_MAX_CONNS environment variable value", "value", v)
				return nil, fmt.Errorf("invalid PG_MAX_CONNS value %q: expected a positive integer", v)
			}
			pgCfg.MaxConns = int32(n)
		}
		return &SinkConfig{Type: sinkType, Pg: pgCfg}, nil
	case storage.None, storage.Memory:
		return &SinkConfig{Type: sinkType}, nil
	default:
		slog.Error("Invalid SINK_TYPE environment variable value", "value", sinkType)
		return nil, fmt.Errorf("invalid SINK_TYPE environment variable value: %s, expected one of %v", sinkType, validTypes)
	}
}

// FromSpec converts the sink section of a spec file. A nil section selects the none sink.
func FromSpec(cfg *spec.SinkConfig) *SinkConfig {
	if cfg == nil {
		return &SinkConfig{Type: storage.None}
	}
	out := &SinkConfig{Type: storage.Type(cfg.Type)}
	switch out.Type {
	case storage.PG:
		out.Pg = &pg.PoolConfig{ConnStr: cfg.Connection, MaxConns: cfg.MaxConns}
	case storage.ES:
		out.Es = &es.ClientConfig{
			Addresses: stringsutil.SplitTrim(cfg.Connection, ","),
			IndexName: cfg.Index,
			Username:  cfg.Username,
			Password:  cfg.Password,
		}
	}
	return out
}
