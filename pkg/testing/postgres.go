package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:17.5"

// Postgres is a throwaway database with every db/migrations/*.up.sql script applied.
type Postgres struct {
	Container  testcontainers.Container
	ConnString string
}

// StartPostgres starts the container and registers its termination on tb.
func StartPostgres(ctx context.Context, tb testing.TB) *Postgres {
	tb.Helper()

	script, err := migrationScript(tb.TempDir())
	if err != nil {
		tb.Fatalf("failed to prepare migrations: %v", err)
	}

	c, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("bench_test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(script),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("failed to start postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	})

	conn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("failed to get connection string: %v", err)
	}
	return &Postgres{Container: c, ConnString: conn}
}

// migrationScript concatenates the up migrations in name order into one init script under dir.
func migrationScript(dir string) (string, error) {
	_, self, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(self), "..", "..")

	files, err := filepath.Glob(filepath.Join(root, "db", "migrations", "*.up.sql"))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no migrations found under %s", root)
	}
	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("read migration %s: %w", f, err)
		}
		b.Write(content)
		b.WriteString(";\n")
	}

	path := filepath.Join(dir, "init.sql")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
