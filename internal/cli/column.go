package cli

import (
	"fmt"

	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/resolver"
	"github.com/amterp/ra"
)

func registerColumn(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("column")
	cmd.SetDescription("Manage columns")

	// column add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a new column at the end of the board")

	ctx.ColumnAddTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetUsage("Column title. Prompted for if omitted.").
		Register(addCmd)

	ctx.ColumnAddUsed, _ = cmd.RegisterCmd(addCmd)

	// column delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete a column and its cards")

	ctx.ColumnDeleteColumn, _ = ra.NewString("column").
		SetOptional(true).
		SetUsage("Column id or title").
		SetCompletionFunc(completeColumns).
		Register(deleteCmd)

	ctx.ColumnDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation when column has cards").
		Register(deleteCmd)

	ctx.ColumnDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	// column rename
	renameCmd := ra.NewCmd("rename")
	renameCmd.SetDescription("Rename a column")

	ctx.ColumnRenameColumn, _ = ra.NewString("column").
		SetUsage("Column id or current title").
		SetCompletionFunc(completeColumns).
		Register(renameCmd)

	ctx.ColumnRenameTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetUsage("New title. Prompted for if omitted.").
		Register(renameCmd)

	ctx.ColumnRenameUsed, _ = cmd.RegisterCmd(renameCmd)

	// column shuffle
	shuffleCmd := ra.NewCmd("shuffle")
	shuffleCmd.SetDescription("Put the columns in random order")
	ctx.ColumnShuffleUsed, _ = cmd.RegisterCmd(shuffleCmd)

	// column toggle-edit
	toggleCmd := ra.NewCmd("toggle-edit")
	toggleCmd.SetDescription("Lock or unlock a column for edits and drops")

	ctx.ColumnToggleEditColumn, _ = ra.NewString("column").
		SetOptional(true).
		SetUsage("Column id or title").
		SetCompletionFunc(completeColumns).
		Register(toggleCmd)

	ctx.ColumnToggleEditUsed, _ = cmd.RegisterCmd(toggleCmd)

	// column sort
	sortCmd := ra.NewCmd("sort")
	sortCmd.SetDescription("Flip a column between ascending and descending title order")

	ctx.ColumnSortColumn, _ = ra.NewString("column").
		SetOptional(true).
		SetUsage("Column id or title").
		SetCompletionFunc(completeColumns).
		Register(sortCmd)

	ctx.ColumnSortUsed, _ = cmd.RegisterCmd(sortCmd)

	// column clear
	clearCmd := ra.NewCmd("clear")
	clearCmd.SetDescription("Remove every card from a column")

	ctx.ColumnClearColumn, _ = ra.NewString("column").
		SetOptional(true).
		SetUsage("Column id or title").
		SetCompletionFunc(completeColumns).
		Register(clearCmd)

	ctx.ColumnClearForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(clearCmd)

	ctx.ColumnClearUsed, _ = cmd.RegisterCmd(clearCmd)

	ctx.ColumnUsed, _ = parent.RegisterCmd(cmd)
}

// resolveColumn looks up a column reference against the current board.
func (a *App) resolveColumn(ref string, interactive bool) (*model.Column, error) {
	return a.ColumnResolver.Resolve(a.Board.Snapshot(), ref, interactive)
}

func runColumnAdd(app *App, title string, interactive bool) error {
	if title == "" && interactive {
		var err error
		title, err = app.Prompter.Input("Column title", "")
		if err != nil {
			return err
		}
	}

	col := app.Board.AddColumn()
	if title != "" {
		app.Board.UpdateColumnTitle(title, col.ID)
		PrintSuccess("Added column %q %s", title, RenderID(col.ID))
		return nil
	}
	PrintSuccess("Added untitled column %s", RenderID(col.ID))
	return nil
}

func runColumnDelete(app *App, ref string, force, interactive bool) error {
	col, err := app.resolveColumn(ref, interactive)
	if err != nil {
		return err
	}

	if len(col.Cards) > 0 && !force {
		if !interactive {
			return fmt.Errorf("column %q has %d card(s); use --force to delete it", col.Title, len(col.Cards))
		}
		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete column %q and its %d card(s)?", col.Title, len(col.Cards)),
			false,
		)
		if err != nil {
			return err
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return nil
		}
	}

	app.Board.DeleteColumn(col.ID)
	PrintSuccess("Deleted column %q %s", col.Title, RenderID(col.ID))
	return nil
}

func runColumnRename(app *App, ref, title string, interactive bool) error {
	col, err := app.resolveColumn(ref, interactive)
	if err != nil {
		return err
	}

	if title == "" {
		if !interactive {
			return fmt.Errorf("a new title is required")
		}
		title, err = app.Prompter.Input("New title", col.Title)
		if err != nil {
			return err
		}
	}

	app.Board.UpdateColumnTitle(title, col.ID)
	PrintSuccess("Renamed column %s %q to %q", RenderID(col.ID), col.Title, title)
	return nil
}

func runColumnShuffle(app *App) error {
	app.Board.ShuffleColumns()
	order := app.Board.Snapshot().Columns
	names := make([]string, len(order))
	for i, col := range order {
		names[i] = resolver.ColumnLabel(col)
	}
	PrintSuccess("Shuffled columns: %v", names)
	return nil
}

func runColumnToggleEdit(app *App, ref string, interactive bool) error {
	col, err := app.resolveColumn(ref, interactive)
	if err != nil {
		return err
	}

	app.Board.ToggleColumnEditing(col.ID)
	if app.Board.ColumnEditingDisabled(col.ID) {
		PrintSuccess("Locked column %q", col.Title)
	} else {
		PrintSuccess("Unlocked column %q", col.Title)
	}
	return nil
}

func runColumnSort(app *App, ref string, interactive bool) error {
	col, err := app.resolveColumn(ref, interactive)
	if err != nil {
		return err
	}

	app.Board.ToggleSortBy(col.ID)
	PrintSuccess("Column %q now sorts %s", col.Title, col.SortBy.Toggle())
	return nil
}

func runColumnClear(app *App, ref string, force, interactive bool) error {
	col, err := app.resolveColumn(ref, interactive)
	if err != nil {
		return err
	}

	if len(col.Cards) == 0 {
		PrintInfo("Column %q is already empty", col.Title)
		return nil
	}

	if !force {
		if !interactive {
			return fmt.Errorf("clearing column %q requires --force in non-interactive mode", col.Title)
		}
		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Remove all %d card(s) from %q?", len(col.Cards), col.Title),
			false,
		)
		if err != nil {
			return err
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return nil
		}
	}

	app.Board.ClearCards(col.ID)
	PrintSuccess("Cleared %d card(s) from %q", len(col.Cards), col.Title)
	return nil
}
