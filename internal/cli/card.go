package cli

import (
	"fmt"

	"github.com/amterp/kanboard/internal/dnd"
	kberr "github.com/amterp/kanboard/internal/errors"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/ra"
)

// flagUnset is the default of string flags where an empty value is meaningful.
const flagUnset = "\x00"

// flagValue returns nil when the flag was not passed.
func flagValue(v string) *string {
	if v == flagUnset {
		return nil
	}
	return &v
}

func registerCard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("card")
	cmd.SetDescription("Manage cards")

	// card add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a card to the end of a column")

	ctx.CardAddColumn, _ = ra.NewString("column").
		SetUsage("Column id or title").
		SetCompletionFunc(completeColumns).
		Register(addCmd)

	ctx.CardAddTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetUsage("Card title. Prompted for if omitted.").
		Register(addCmd)

	ctx.CardAddDescription, _ = ra.NewString("description").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Card description").
		Register(addCmd)

	ctx.CardAddUsed, _ = cmd.RegisterCmd(addCmd)

	// card edit
	editCmd := ra.NewCmd("edit")
	editCmd.SetDescription("Edit a card's title and description")

	ctx.CardEditCard, _ = ra.NewString("card").
		SetUsage("Card id or title").
		SetCompletionFunc(completeCards).
		Register(editCmd)

	ctx.CardEditTitle, _ = ra.NewString("title").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New title").
		Register(editCmd)

	ctx.CardEditDescription, _ = ra.NewString("description").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(flagUnset).
		SetUsage("New description (\"\" clears it)").
		Register(editCmd)

	ctx.CardEditEditor, _ = ra.NewBool("editor").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Write the description in $EDITOR").
		Register(editCmd)

	ctx.CardEditUsed, _ = cmd.RegisterCmd(editCmd)

	// card delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete a card")

	ctx.CardDeleteCard, _ = ra.NewString("card").
		SetUsage("Card id or title").
		SetCompletionFunc(completeCards).
		Register(deleteCmd)

	ctx.CardDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(deleteCmd)

	ctx.CardDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	// card move
	moveCmd := ra.NewCmd("move")
	moveCmd.SetDescription("Move a card to the end of another column")

	ctx.CardMoveCard, _ = ra.NewString("card").
		SetUsage("Card id or title").
		SetCompletionFunc(completeCards).
		Register(moveCmd)

	ctx.CardMoveColumn, _ = ra.NewString("column").
		SetOptional(true).
		SetUsage("Destination column id or title").
		SetCompletionFunc(completeColumns).
		Register(moveCmd)

	ctx.CardMoveUsed, _ = cmd.RegisterCmd(moveCmd)

	// card shuffle
	shuffleCmd := ra.NewCmd("shuffle")
	shuffleCmd.SetDescription("Deal every card into a random column")
	ctx.CardShuffleUsed, _ = cmd.RegisterCmd(shuffleCmd)

	ctx.CardUsed, _ = parent.RegisterCmd(cmd)
}

// requireEditable refuses changes to a locked column, as the board UI hides
// its edit controls.
func (a *App) requireEditable(col *model.Column) error {
	if a.Board.IsDisabledGlobal() {
		return fmt.Errorf("editing is disabled for the whole board; run 'kanboard disable' to re-enable")
	}
	if col.EditingDisabled {
		return fmt.Errorf("column %q is locked; run 'kanboard column toggle-edit %d' to unlock", col.Title, col.ID)
	}
	return nil
}

func (a *App) lockedError() error {
	if lock := a.Board.EditingLock(); lock != nil {
		return &kberr.LockedError{CardID: lock.CardID, ColumnID: lock.ColumnID}
	}
	return nil
}

func runCardAdd(app *App, columnRef, title, description string, interactive bool) error {
	col, err := app.resolveColumn(columnRef, interactive)
	if err != nil {
		return err
	}
	if err := app.requireEditable(col); err != nil {
		return err
	}

	card := app.Board.AddCard(col.ID)
	if card == nil {
		if err := app.lockedError(); err != nil {
			return err
		}
		return kberr.ColumnNotFound(columnRef)
	}

	if title == "" {
		if !interactive {
			app.Board.CancelCurrentEditing()
			return kberr.InvalidField("title", "required in non-interactive mode")
		}
		title, err = app.Prompter.Input("Card title", "")
		if err != nil {
			app.Board.CancelCurrentEditing()
			return err
		}
	}

	app.Board.UpdateCard(col.ID, model.CardData{ID: card.ID, Title: title, Description: description})
	PrintSuccess("Added card %q %s to %q", title, RenderID(card.ID), col.Title)
	return nil
}

// runCardEdit edits a card. A nil description leaves it unchanged; an empty
// one clears it.
func runCardEdit(app *App, cardRef, title string, description *string, useEditor, interactive bool) error {
	col, card, err := app.CardResolver.Resolve(app.Board.Snapshot(), cardRef)
	if err != nil {
		return err
	}
	if err := app.requireEditable(col); err != nil {
		return err
	}

	if !app.Board.StartEditing(col.ID, card.ID) {
		if err := app.lockedError(); err != nil {
			return err
		}
		return kberr.CardNotFound(card.ID)
	}

	data := model.CardData{ID: card.ID, Title: card.Title, Description: card.Description}
	switch {
	case useEditor:
		if title != "" {
			data.Title = title
		}
		if data.Description, err = app.Editor.Edit(card.Description); err != nil {
			app.Board.CancelCurrentEditing()
			return fmt.Errorf("editor failed: %w", err)
		}
	case title != "" || description != nil:
		if title != "" {
			data.Title = title
		}
		if description != nil {
			data.Description = *description
		}
	case interactive:
		if data.Title, data.Description, err = app.Prompter.CardFields(card.Title, card.Description); err != nil {
			app.Board.CancelCurrentEditing()
			return err
		}
	default:
		app.Board.CancelCurrentEditing()
		return fmt.Errorf("nothing to change; pass --title or --description")
	}

	app.Board.UpdateCard(col.ID, data)
	PrintSuccess("Updated card %q %s", data.Title, RenderID(card.ID))
	return nil
}

func runCardDelete(app *App, cardRef string, force, interactive bool) error {
	col, card, err := app.CardResolver.Resolve(app.Board.Snapshot(), cardRef)
	if err != nil {
		return err
	}
	if err := app.requireEditable(col); err != nil {
		return err
	}

	if !force {
		if !interactive {
			return fmt.Errorf("deleting card %q (%d) requires --force in non-interactive mode", card.Title, card.ID)
		}
		confirmed, err := app.Prompter.Confirm(fmt.Sprintf("Delete card %q (%d)?", card.Title, card.ID), false)
		if err != nil {
			return err
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return nil
		}
	}

	app.Board.DeleteCard(col.ID, card.ID)
	PrintSuccess("Deleted card %q %s from %q", card.Title, RenderID(card.ID), col.Title)
	return nil
}

// runCardMove drags the card onto the destination column, so moves from the
// terminal obey the same rules as moves in the browser.
func runCardMove(app *App, cardRef, columnRef string, interactive bool) error {
	snap := app.Board.Snapshot()
	from, card, err := app.CardResolver.Resolve(snap, cardRef)
	if err != nil {
		return err
	}
	to, err := app.ColumnResolver.Resolve(snap, columnRef, interactive)
	if err != nil {
		return err
	}

	transfer := dnd.NewMapTransfer(nil)
	if _, ok := app.Drag.BeginDrag(transfer, card.ID, from.ID); !ok {
		return fmt.Errorf("editing is disabled for the whole board")
	}
	defer app.Drag.EndDrag()

	if !app.Drag.Over(transfer, to.ID) {
		return fmt.Errorf("column %q does not accept cards right now", to.Title)
	}
	instruction := app.Drag.Drop(transfer)
	if instruction == nil {
		return fmt.Errorf("could not read the dragged card")
	}

	if !app.Board.HandleCardDrop(instruction.To(to.ID)) {
		PrintInfo("Card %q is already in %q", card.Title, to.Title)
		return nil
	}
	PrintSuccess("Moved card %q %s from %q to %q", card.Title, RenderID(card.ID), from.Title, to.Title)
	return nil
}

func runCardShuffle(app *App) error {
	total := app.Board.TotalCards()
	if total == 0 || !app.Board.HasColumns() {
		PrintInfo("No cards to shuffle")
		return nil
	}
	app.Board.ShuffleCards()
	PrintSuccess("Shuffled %d card(s)", total)
	return nil
}
