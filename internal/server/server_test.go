package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	pkgserver "github.com/DjordjeVuckovic/vm-bench/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "none.env"))

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("CORS_ORIGINS", "")
		t.Setenv("RESULTS_DIR", "")
		t.Setenv("USE_HTTP2", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
		assert.Equal(t, "benchmark_results", cfg.ResultsDir)
		assert.False(t, cfg.UseHttp2)
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
		t.Setenv("RESULTS_DIR", "/data/results")
		t.Setenv("USE_HTTP2", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
		assert.Equal(t, "/data/results", cfg.ResultsDir)
		assert.True(t, cfg.UseHttp2)
	})

	t.Run("invalid port", func(t *testing.T) {
		for _, p := range []string{"http", "0", "70000"} {
			t.Setenv("PORT", p)
			_, err := LoadConfig()
			assert.Error(t, err, p)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{Port: "8080", ResultsDir: "r"}).Validate())
	assert.Error(t, (&Config{Port: "8080"}).Validate())
	assert.Error(t, (&Config{Port: "-1", ResultsDir: "r"}).Validate())
}

func TestServer_Health(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Port: "8080", CorsOrigins: []string{"*"}, ResultsDir: dir}

	tests := []struct {
		name string
		dir  string
		want int
	}{
		{name: "dir exists", dir: dir, want: http.StatusOK},
		{name: "dir missing", dir: filepath.Join(dir, "missing"), want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(cfg, pkgserver.NewDirHealthChecker(tt.dir)).SetupMiddlewares().SetupHealthChecks()

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
