package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool

	// show command
	ShowUsed *bool
	ShowJson *bool

	// column command
	ColumnUsed *bool

	ColumnAddUsed  *bool
	ColumnAddTitle *string

	ColumnDeleteUsed   *bool
	ColumnDeleteColumn *string
	ColumnDeleteForce  *bool

	ColumnRenameUsed   *bool
	ColumnRenameColumn *string
	ColumnRenameTitle  *string

	ColumnShuffleUsed *bool

	ColumnToggleEditUsed   *bool
	ColumnToggleEditColumn *string

	ColumnSortUsed   *bool
	ColumnSortColumn *string

	ColumnClearUsed   *bool
	ColumnClearColumn *string
	ColumnClearForce  *bool

	// card command
	CardUsed *bool

	CardAddUsed        *bool
	CardAddColumn      *string
	CardAddTitle       *string
	CardAddDescription *string

	CardEditUsed        *bool
	CardEditCard        *string
	CardEditTitle       *string
	CardEditDescription *string
	CardEditEditor      *bool

	CardDeleteUsed  *bool
	CardDeleteCard  *string
	CardDeleteForce *bool

	CardMoveUsed   *bool
	CardMoveCard   *string
	CardMoveColumn *string

	CardShuffleUsed *bool

	// disable command
	DisableUsed *bool

	// export command
	ExportUsed   *bool
	ExportFormat *string
	ExportOutput *string

	// serve command
	ServeUsed *bool
	ServePort *int

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("kanboard")
	cmd.SetDescription("A kanban board in your terminal, with a local HTTP API")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerShow(cmd, ctx)
	registerColumn(cmd, ctx)
	registerCard(cmd, ctx)
	registerDisable(cmd, ctx)
	registerExport(cmd, ctx)
	registerServe(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	interactive := !*ctx.NonInteractive

	switch {
	case *ctx.ShowUsed:
		withApp(interactive, func(app *App) error {
			return runShow(app, *ctx.ShowJson)
		})

	case *ctx.ColumnAddUsed:
		withApp(interactive, func(app *App) error {
			return runColumnAdd(app, *ctx.ColumnAddTitle, interactive)
		})

	case *ctx.ColumnDeleteUsed:
		withApp(interactive, func(app *App) error {
			return runColumnDelete(app, *ctx.ColumnDeleteColumn, *ctx.ColumnDeleteForce, interactive)
		})

	case *ctx.ColumnRenameUsed:
		withApp(interactive, func(app *App) error {
			return runColumnRename(app, *ctx.ColumnRenameColumn, *ctx.ColumnRenameTitle, interactive)
		})

	case *ctx.ColumnShuffleUsed:
		withApp(interactive, runColumnShuffle)

	case *ctx.ColumnToggleEditUsed:
		withApp(interactive, func(app *App) error {
			return runColumnToggleEdit(app, *ctx.ColumnToggleEditColumn, interactive)
		})

	case *ctx.ColumnSortUsed:
		withApp(interactive, func(app *App) error {
			return runColumnSort(app, *ctx.ColumnSortColumn, interactive)
		})

	case *ctx.ColumnClearUsed:
		withApp(interactive, func(app *App) error {
			return runColumnClear(app, *ctx.ColumnClearColumn, *ctx.ColumnClearForce, interactive)
		})

	case *ctx.CardAddUsed:
		withApp(interactive, func(app *App) error {
			return runCardAdd(app, *ctx.CardAddColumn, *ctx.CardAddTitle, *ctx.CardAddDescription, interactive)
		})

	case *ctx.CardEditUsed:
		withApp(interactive, func(app *App) error {
			return runCardEdit(app, *ctx.CardEditCard, *ctx.CardEditTitle, flagValue(*ctx.CardEditDescription), *ctx.CardEditEditor, interactive)
		})

	case *ctx.CardDeleteUsed:
		withApp(interactive, func(app *App) error {
			return runCardDelete(app, *ctx.CardDeleteCard, *ctx.CardDeleteForce, interactive)
		})

	case *ctx.CardMoveUsed:
		withApp(interactive, func(app *App) error {
			return runCardMove(app, *ctx.CardMoveCard, *ctx.CardMoveColumn, interactive)
		})

	case *ctx.CardShuffleUsed:
		withApp(interactive, runCardShuffle)

	case *ctx.DisableUsed:
		withApp(interactive, runDisable)

	case *ctx.ExportUsed:
		withApp(interactive, func(app *App) error {
			return runExport(app, *ctx.ExportFormat, *ctx.ExportOutput)
		})

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
