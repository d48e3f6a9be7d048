package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultDataDir   = ".kanboard"
	SettingsDir      = ".config/kanboard"
	SettingsFileName = "config.toml"
	SQLiteFileName   = "board.db"
	ValueFileSuffix  = ".json"
)

// Paths provides path resolution for kanboard data files.
type Paths struct {
	dataDir string
}

// NewPaths creates a new Paths resolver rooted at dataDir.
// An empty dataDir resolves to ~/.kanboard.
func NewPaths(dataDir string) *Paths {
	if dataDir == "" {
		dataDir = DefaultDataDirPath()
	}
	return &Paths{dataDir: dataDir}
}

// DataDir returns the directory holding persisted board state.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ValuePath returns the file backing a key in the file backend.
func (p *Paths) ValuePath(key string) string {
	return filepath.Join(p.dataDir, key+ValueFileSuffix)
}

// SQLitePath returns the database file for the sqlite backend.
func (p *Paths) SQLitePath() string {
	return filepath.Join(p.dataDir, SQLiteFileName)
}

// DefaultDataDirPath returns ~/.kanboard, or a relative .kanboard if the home
// directory cannot be determined.
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// SettingsPath returns the path to the settings file.
func SettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, SettingsDir, SettingsFileName)
}
