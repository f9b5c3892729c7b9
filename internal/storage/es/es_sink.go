package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

type Sink struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// Document is the indexed form of one report row.
type Document struct {
	storage.Record
	IndexedAt time.Time `json:"indexed_at"`
}

var _ storage.RunLoader = (*Sink)(nil)

func NewSink(ctx context.Context, config ClientConfig) (*Sink, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	s := &Sink{
		client:    client,
		indexName: config.index(),
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return s, nil
}

func (s *Sink) Save(ctx context.Context, run storage.RunInfo, table *report.Table) error {
	records := storage.Records(run, table)
	if len(records) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      s.indexName,
		Client:     s.client,
		NumWorkers: 1,
		Refresh:    "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := time.Now()

	for _, rec := range records {
		docBytes, err := json.Marshal(Document{Record: rec, IndexedAt: now})
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", rec.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: rec.ID.String(),
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", rec.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Results indexed in Elasticsearch",
		"run_id", run.RunID,
		"config", run.Configuration,
		"suite", run.Suite,
		"successful", successful.Load(),
		"failed", failed.Load(),
		"index", s.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d results", n, len(records))
	}
	return nil
}

func (s *Sink) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Debug("Index already exists", "index", s.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":              types.NewKeywordProperty(),
			"run_id":          types.NewKeywordProperty(),
			"configuration":   types.NewKeywordProperty(),
			"suite":           types.NewKeywordProperty(),
			"benchmark":       types.NewKeywordProperty(),
			"trials":          types.NewIntegerNumberProperty(),
			"avg_time":        types.NewDoubleNumberProperty(),
			"avg_time_err":    types.NewDoubleNumberProperty(),
			"avg_gc_time":     types.NewDoubleNumberProperty(),
			"avg_gc_time_err": types.NewDoubleNumberProperty(),
			"samples":         types.NewObjectProperty(),
			"started_at":      types.NewDateProperty(),
			"indexed_at":      types.NewDateProperty(),
		},
	}

	res, err := s.client.Indices.Create(s.indexName).Mappings(&mappings).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

// maxRunRecords is the default max_result_window of an index.
const maxRunRecords = 10000

func (s *Sink) LoadRun(ctx context.Context, runID uuid.UUID) ([]storage.Record, error) {
	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"run_id": {Value: runID.String()},
			},
		}).
		Size(maxRunRecords).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "run_id", runID)
		return nil, fmt.Errorf("failed to search results: %w", err)
	}

	records := make([]storage.Record, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc Document
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		records = append(records, doc.Record)
	}
	storage.SortRecords(records)
	return records, nil
}

func (s *Sink) Close() {}
