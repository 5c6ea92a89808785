package configutil

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files (or ".env" when none are given)
// into the process environment. Files that do not exist are skipped and
// variables that are already set are never overwritten.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, f := range filenames {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		slog.Debug("loaded env file", "file", f)
	}
	return nil
}

// OverrideString sets *dst to the value of the environment variable
// `key` if it is set and non-empty.
func OverrideString(dst *string, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	*dst = value
}

// OverrideInt is OverrideString for integers, an unparsable value is
// reported and ignored.
func OverrideInt(dst *int, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring invalid integer env var", "key", key, "value", value, "err", err)
		return
	}
	*dst = parsed
}
