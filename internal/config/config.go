package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings for the regimen binary.
type Config struct {
	DBPath                 string
	ProtocolDir            string
	DefaultDurationSeconds int
	TickInterval           time.Duration
	LogCalls               bool
	Bell                   bool
}

// DefaultConfig returns a Config with the database under ~/.regimen.
// When the home directory cannot be resolved the database lives in the
// working directory.
func DefaultConfig() Config {
	dbPath := "regimen.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".regimen", "regimen.db")
	}
	return Config{
		DBPath:                 dbPath,
		DefaultDurationSeconds: 60,
		TickInterval:           time.Second,
		LogCalls:               false,
		Bell:                   true,
	}
}

// LoadConfig reads configuration from REGIMEN_* environment variables,
// falling back to defaults for any unset or malformed values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("REGIMEN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("REGIMEN_PROTOCOL_DIR"); v != "" {
		cfg.ProtocolDir = v
	}
	if v := os.Getenv("REGIMEN_DEFAULT_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultDurationSeconds = n
		}
	}
	if v := os.Getenv("REGIMEN_TICK_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TickInterval = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("REGIMEN_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	if v := os.Getenv("REGIMEN_BELL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Bell = b
		}
	}

	return cfg
}

// BindFlags registers persistent overrides on fs. Values parsed into fs
// are written straight into c, so flags win over the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "path to the SQLite database")
	fs.StringVar(&c.ProtocolDir, "protocol-dir", c.ProtocolDir, "directory of extra protocol YAML files")
	fs.IntVar(&c.DefaultDurationSeconds, "default-duration", c.DefaultDurationSeconds, "timer length in seconds when an item's duration cannot be parsed")
}

// Validate rejects settings that would break the tracker.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.DefaultDurationSeconds <= 0 {
		return fmt.Errorf("default duration must be positive, got %d", c.DefaultDurationSeconds)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	return nil
}

// EnsureDBDir creates the parent directory of the database file.
func (c Config) EnsureDBDir() error {
	if c.DBPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}
