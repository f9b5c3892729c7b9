package env

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// PathVar overrides the .env location.
const PathVar = "ENV_PATH"

// LoadDotEnv loads variables from the file named by ENV_PATH, or defaultPath when unset.
// Variables already present in the process environment are not overwritten.
// A missing file is an error only when required is set.
func LoadDotEnv(defaultPath string, required bool) error {
	envPath := os.Getenv(PathVar)
	if envPath == "" {
		envPath = defaultPath
	}

	err := godotenv.Load(envPath)
	if err == nil {
		slog.Debug("Loaded environment file", "path", envPath)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !required {
		slog.Debug("Skipping .env ...", "path", envPath)
		return nil
	}
	return fmt.Errorf("load %s: %w", envPath, err)
}
