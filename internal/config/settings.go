package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Backend names accepted by Settings.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Defaults applied when neither the settings file nor the environment set a value.
const (
	DefaultBackend    = BackendFile
	DefaultDebounceMs = 500
	DefaultPort       = 3000
	DefaultLogLevel   = "info"
	DefaultStateKey   = "board-state"
	DefaultRedisURL   = "redis://localhost:6379/0"
)

// Settings is the user's kanboard configuration.
// Stored at ~/.config/kanboard/config.toml; every field can be overridden by
// a KANBOARD_* environment variable (optionally from a .env file).
type Settings struct {
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir,omitempty"`
	RedisURL   string `toml:"redis_url,omitempty"`
	StateKey   string `toml:"state_key,omitempty"`
	DebounceMs int    `toml:"debounce_ms,omitempty"`
	Port       int    `toml:"port,omitempty"`
	LogLevel   string `toml:"log_level,omitempty"`
	LogFile    string `toml:"log_file,omitempty"`
	Editor     string `toml:"editor,omitempty"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	return &Settings{
		Backend:    DefaultBackend,
		RedisURL:   DefaultRedisURL,
		StateKey:   DefaultStateKey,
		DebounceMs: DefaultDebounceMs,
		Port:       DefaultPort,
		LogLevel:   DefaultLogLevel,
	}
}

// Debounce returns the auto-save delay.
func (s *Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// LoadSettings reads the settings file at path (missing file is not an error),
// loads .env from the working directory if present, then applies environment overrides.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	// .env is optional; existing environment variables win over it
	_ = godotenv.Load()

	if err := s.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv(getenv func(string) string) error {
	if v := getenv("KANBOARD_BACKEND"); v != "" {
		s.Backend = v
	}
	if v := getenv("KANBOARD_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := getenv("KANBOARD_REDIS_URL"); v != "" {
		s.RedisURL = v
	}
	if v := getenv("KANBOARD_STATE_KEY"); v != "" {
		s.StateKey = v
	}
	if v := getenv("KANBOARD_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv("KANBOARD_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	if v := getenv("KANBOARD_EDITOR"); v != "" {
		s.Editor = v
	}
	if v := getenv("KANBOARD_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KANBOARD_DEBOUNCE_MS %q: %w", v, err)
		}
		s.DebounceMs = n
	}
	if v := getenv("KANBOARD_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KANBOARD_PORT %q: %w", v, err)
		}
		s.Port = n
	}
	return nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	switch s.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want file, sqlite, redis or memory)", s.Backend)
	}
	if s.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", s.DebounceMs)
	}
	if s.StateKey == "" {
		s.StateKey = DefaultStateKey
	}
	// The file backend uses the key as a file name inside the data dir
	if strings.ContainsAny(s.StateKey, `/\`) || strings.Contains(s.StateKey, "..") || s.StateKey != filepath.Base(s.StateKey) {
		return fmt.Errorf("state_key %q must be a plain name without path separators or \"..\"", s.StateKey)
	}
	return nil
}

// Save writes the settings to path, creating the parent directory.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}
