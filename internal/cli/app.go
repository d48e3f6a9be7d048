package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/amterp/kanboard/internal/board"
	"github.com/amterp/kanboard/internal/config"
	"github.com/amterp/kanboard/internal/discovery"
	"github.com/amterp/kanboard/internal/dnd"
	"github.com/amterp/kanboard/internal/editor"
	"github.com/amterp/kanboard/internal/kv"
	"github.com/amterp/kanboard/internal/logging"
	"github.com/amterp/kanboard/internal/prompt"
	"github.com/amterp/kanboard/internal/resolver"
	"github.com/amterp/kanboard/internal/storage"
	"github.com/rs/zerolog"
)

// App holds all the dependencies for the CLI.
type App struct {
	Settings       *config.Settings
	Paths          *config.Paths
	Logger         zerolog.Logger
	Store          kv.Store
	Storage        *storage.Adapter
	Board          *board.Board
	Drag           *dnd.Controller
	Prompter       prompt.Prompter
	Editor         *editor.Editor
	ColumnResolver *resolver.ColumnResolver
	CardResolver   *resolver.CardResolver

	logCloser io.Closer
}

// NewApp loads settings, opens the configured backend and restores the board.
// If interactive is false, uses NoopPrompter that fails on prompts.
// Callers must Close the app so pending changes are written.
func NewApp(interactive bool) (*App, error) {
	settings, err := config.LoadSettings(config.SettingsPath())
	if err != nil {
		return nil, err
	}
	return NewAppWithSettings(settings, interactive)
}

// NewAppWithSettings wires an App from already-loaded settings.
func NewAppWithSettings(settings *config.Settings, interactive bool) (*App, error) {
	logger, logCloser, err := logging.New(logging.Options{
		Level:   settings.LogLevel,
		Path:    settings.LogFile,
		Console: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	ctx := context.Background()
	paths := config.NewPaths(discovery.DataDir(settings.DataDir))
	store, err := kv.Open(ctx, settings, paths)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", settings.Backend, err)
	}

	adapter := storage.NewAdapter(store, settings.StateKey, logger)
	b := board.New(adapter, board.Options{
		Logger:   logger,
		Debounce: settings.Debounce(),
	})
	b.Initialize(ctx)

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		Settings:       settings,
		Paths:          paths,
		Logger:         logger,
		Store:          store,
		Storage:        adapter,
		Board:          b,
		Drag:           dnd.NewController(b, nil, logger),
		Prompter:       prompter,
		Editor:         editor.NewEditor(settings.Editor),
		ColumnResolver: resolver.NewColumnResolver(prompter),
		CardResolver:   resolver.NewCardResolver(),
		logCloser:      logCloser,
	}, nil
}

// Close writes pending board changes and releases the backend.
func (a *App) Close() {
	a.Board.Close()
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to close storage")
	}
	a.logCloser.Close()
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}

// withApp runs fn against a fresh App and closes it afterwards, so every
// command persists its changes before the process exits.
func withApp(interactive bool, fn func(app *App) error) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	err = fn(app)
	app.Close()
	if err != nil {
		Fatal(err)
	}
}
