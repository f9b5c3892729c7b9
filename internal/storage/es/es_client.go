package es

import (
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
)

const DefaultIndexName = "bench-results"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func (c ClientConfig) index() string {
	if c.IndexName == "" {
		return DefaultIndexName
	}
	return c.IndexName
}

func newClient(c ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(c.Addresses) == 0 {
		return nil, errors.New("no elasticsearch addresses configured")
	}

	cfg := elasticsearch.Config{Addresses: c.Addresses}
	// basic auth only when both halves are present
	if c.Username != "" && c.Password != "" {
		cfg.Username, cfg.Password = c.Username, c.Password
	}
	return elasticsearch.NewTypedClient(cfg)
}
