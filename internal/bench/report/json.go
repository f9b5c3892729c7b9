package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Document is the JSON form of one report table, stamped with the run that produced it.
type Document struct {
	RunID         string    `json:"run_id"`
	Configuration string    `json:"configuration"`
	Suite         string    `json:"suite"`
	Trials        int       `json:"trials"`
	StartedAt     time.Time `json:"started_at"`
	Rows          []Row     `json:"rows"`
}

func NewDocument(runID, configuration, suite string, startedAt time.Time, t *Table) Document {
	return Document{
		RunID:         runID,
		Configuration: configuration,
		Suite:         suite,
		Trials:        t.Trials(),
		StartedAt:     startedAt,
		Rows:          t.Rows(),
	}
}

func WriteJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json report: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode json report: %w", err)
	}
	return f.Close()
}
