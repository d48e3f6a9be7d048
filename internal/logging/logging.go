// Package logging builds the zerolog logger shared by the CLI, server and storage layers.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const filePermission = 0664

// Options configures New.
type Options struct {
	Level   string    // "debug", "info", "warn", "error"; empty means info
	Path    string    // Append to this file instead of Writer when set
	Writer  io.Writer // Defaults to stderr
	Console bool      // Human-readable output instead of JSON
}

// New creates a timestamped logger. The returned closer releases the log file,
// if any, and is never nil.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	var closer io.Closer = nopCloser{}
	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		w = zerolog.SyncWriter(f)
		closer = f
	} else if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
