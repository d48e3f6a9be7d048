package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/amterp/kanboard/internal/api"
	"github.com/amterp/kanboard/internal/config"
	"github.com/amterp/ra"
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Serve the board over HTTP and WebSocket")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on, defaults to the configured port (will try incrementally if in use)").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	if port <= 0 {
		port = app.Settings.Port
	}

	// Only the file backend keeps values on disk where edits can be observed
	watchDir := ""
	if app.Settings.Backend == config.BackendFile {
		watchDir = app.Paths.DataDir()
	}

	handler := api.NewHandler(app.Board, app.Drag, app.Logger)

	// Find an available port starting from the requested one
	actualPort := findAvailablePort(port)

	server := api.NewServer(handler, app.Board, actualPort, watchDir, app.Logger)

	fmt.Println(serveBanner(app, actualPort))
	app.Logger.Info().
		Str("backend", app.Settings.Backend).
		Str("key", app.Storage.Key()).
		Str("watch", watchDir).
		Msg("serving board")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Close()
			Fatal(err)
		}
	case sig := <-sigCh:
		app.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.Logger.Warn().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// serveBanner describes where the API listens and which stored board it serves.
func serveBanner(app *App, port int) string {
	base := fmt.Sprintf("localhost:%d/api/v1", port)
	lines := []string{
		fmt.Sprintf("Kanboard API running at %s", RenderURL("http://"+base+"/board")),
		fmt.Sprintf("Live changes on %s", RenderURL("ws://"+base+"/ws")),
		RenderMuted(fmt.Sprintf("Board %q in the %s backend", app.Storage.Key(), app.Settings.Backend)),
		"Press Ctrl+C to stop",
	}
	return strings.Join(lines, "\n")
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
