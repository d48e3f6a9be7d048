// Package discovery locates a project-local board directory.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/kanboard/internal/config"
)

// Result contains the discovered project root and data directory.
type Result struct {
	ProjectRoot string // Absolute path to the directory containing .kanboard/
	DataDir     string // Absolute path to the .kanboard/ directory itself
}

// DiscoverProject finds a project board by walking up from cwd.
//
// Returns nil if no directory on the way up contains .kanboard/.
func DiscoverProject() (*Result, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return DiscoverProjectFrom(cwd, "")
}

// DiscoverProjectFrom finds a project board starting from a given directory.
// The walk stops below stopAt when it is non-empty, so the user's own
// ~/.kanboard is not mistaken for a project board.
func DiscoverProjectFrom(startDir, stopAt string) (*Result, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if stopAt != "" {
		if stopAt, err = filepath.Abs(stopAt); err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
		}
	}

	dir := absStart
	for {
		if dir == stopAt {
			return nil, nil
		}

		dataDir := filepath.Join(dir, config.DefaultDataDir)
		if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
			return &Result{ProjectRoot: dir, DataDir: dataDir}, nil
		}

		// Move up to parent
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, no project found
			return nil, nil
		}
		dir = parent
	}
}

// DataDir returns the data directory the app should use: the configured one
// if set, otherwise the nearest project board below the home directory,
// otherwise empty (the default ~/.kanboard).
func DataDir(configured string) string {
	if configured != "" {
		return configured
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	home, _ := os.UserHomeDir()

	result, err := DiscoverProjectFrom(cwd, home)
	if err != nil || result == nil {
		return ""
	}
	return result.DataDir
}
