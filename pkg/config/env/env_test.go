package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("loads file from ENV_PATH", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.env")
		require.NoError(t, os.WriteFile(path, []byte("VMBENCH_TEST_SINK=postgres\n"), 0o644))
		t.Setenv(PathVar, path)
		t.Setenv("VMBENCH_TEST_SINK", "")
		require.NoError(t, os.Unsetenv("VMBENCH_TEST_SINK"))

		require.NoError(t, LoadDotEnv("ignored.env", true))
		assert.Equal(t, "postgres", os.Getenv("VMBENCH_TEST_SINK"))
	})

	t.Run("does not override process env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("VMBENCH_TEST_PORT=9000\n"), 0o644))
		t.Setenv(PathVar, "")
		t.Setenv("VMBENCH_TEST_PORT", "8081")

		require.NoError(t, LoadDotEnv(path, true))
		assert.Equal(t, "8081", os.Getenv("VMBENCH_TEST_PORT"))
	})

	t.Run("missing optional file", func(t *testing.T) {
		t.Setenv(PathVar, "")
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "none.env"), false))
	})

	t.Run("missing required file", func(t *testing.T) {
		t.Setenv(PathVar, "")
		assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "none.env"), true))
	})
}
