package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

// Elasticsearch is a single-node cluster reachable over plain HTTP.
type Elasticsearch struct {
	Container testcontainers.Container
	Address   string
}

func StartElasticsearch(ctx context.Context, tb testing.TB) *Elasticsearch {
	tb.Helper()

	c, err := elasticsearch.Run(ctx, elasticsearchImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithEnv(map[string]string{"xpack.security.enabled": "false"}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").WithPort("9200").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("failed to start elasticsearch container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		tb.Fatalf("failed to get elasticsearch host: %v", err)
	}
	port, err := c.MappedPort(ctx, "9200")
	if err != nil {
		tb.Fatalf("failed to get elasticsearch port: %v", err)
	}

	return &Elasticsearch{
		Container: c,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}
