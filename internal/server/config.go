package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/pkg/config/env"
	"github.com/DjordjeVuckovic/vm-bench/pkg/stringsutil"
)

const DefaultPort = "8080"

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	ResultsDir  string
}

// LoadConfig reads PORT, USE_HTTP2, CORS_ORIGINS and RESULTS_DIR, after loading the .env file.
func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(".env", false); err != nil {
		slog.Warn("Failed to load .env", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := stringsutil.SplitTrim(os.Getenv("CORS_ORIGINS"), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	dir := os.Getenv("RESULTS_DIR")
	if dir == "" {
		dir = spec.DefaultOutputDir
	}

	return &Config{
		Port:        port,
		UseHttp2:    os.Getenv("USE_HTTP2") == "true",
		CorsOrigins: origins,
		ResultsDir:  dir,
	}, nil
}

func (c *Config) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if c.ResultsDir == "" {
		return errors.New("results dir is required")
	}
	return nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
