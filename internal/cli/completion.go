package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/amterp/kanboard/internal/config"
	"github.com/amterp/kanboard/internal/discovery"
	"github.com/amterp/kanboard/internal/kv"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/storage"
	"github.com/amterp/ra"
	"github.com/rs/zerolog"
)

// completionCtx provides read-only board access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// and must not seed or save a board, so they only read the stored snapshot.
type completionCtx struct {
	once sync.Once
	snap *model.Snapshot
}

var compCtx completionCtx

func loadCompletionSnapshot() *model.Snapshot {
	compCtx.once.Do(func() {
		settings, err := config.LoadSettings(config.SettingsPath())
		if err != nil {
			// Graceful degradation: no completions if settings are broken
			return
		}
		ctx := context.Background()
		store, err := kv.Open(ctx, settings, config.NewPaths(discovery.DataDir(settings.DataDir)))
		if err != nil {
			return
		}
		defer store.Close()

		compCtx.snap = storage.NewAdapter(store, settings.StateKey, zerolog.Nop()).Load(ctx)
	})
	return compCtx.snap
}

// completeColumns returns column IDs and titles matching the given prefix.
func completeColumns(toComplete string) ([]string, ra.CompletionDirective) {
	snap := loadCompletionSnapshot()
	if snap == nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	return matchColumns(snap, toComplete), ra.CompletionDirectiveNoFileComp
}

// completeCards returns card IDs and titles matching the given prefix.
func completeCards(toComplete string) ([]string, ra.CompletionDirective) {
	snap := loadCompletionSnapshot()
	if snap == nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	return matchCards(snap, toComplete), ra.CompletionDirectiveNoFileComp
}

func matchColumns(snap *model.Snapshot, prefix string) []string {
	var result []string
	for _, col := range snap.Columns {
		result = appendMatches(result, prefix, col.ID, col.Title)
	}
	return result
}

func matchCards(snap *model.Snapshot, prefix string) []string {
	var result []string
	for _, col := range snap.Columns {
		for _, card := range col.Cards {
			result = appendMatches(result, prefix, card.ID, card.Title)
		}
	}
	return result
}

func appendMatches(result []string, prefix string, id int, title string) []string {
	if s := strconv.Itoa(id); strings.HasPrefix(s, prefix) {
		result = append(result, s)
	}
	if title != "" && strings.HasPrefix(strings.ToLower(title), strings.ToLower(prefix)) {
		result = append(result, title)
	}
	return result
}

// registerCompletion adds the "kanboard completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
