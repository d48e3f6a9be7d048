package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/ra"
	"github.com/charmbracelet/lipgloss"
)

const columnWidth = 28

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Show the board")

	ctx.ShowJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(app *App, jsonOutput bool) error {
	snap := app.Board.Snapshot()

	if jsonOutput {
		return printJson(NewShowOutput(snap, app.Board.SortedCards, app.Board.EditingLock()))
	}

	if snap.IsDisabledGlobal {
		PrintWarning("Editing is disabled for the whole board")
	}
	if len(snap.Columns) == 0 {
		PrintInfo("No columns. Add one with 'kanboard column add'.")
		return nil
	}

	boxes := make([]string, 0, len(snap.Columns))
	for _, col := range snap.Columns {
		boxes = append(boxes, renderColumn(col, app.Board.SortedCards(col.ID)))
	}
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	fmt.Println(RenderMuted(fmt.Sprintf("%d card(s)", snap.TotalCards())))
	return nil
}

func renderColumn(col *model.Column, cards []*model.Card) string {
	title := col.Title
	if title == "" {
		title = RenderMuted("(untitled)")
	}

	var b strings.Builder
	header := fmt.Sprintf("%s %s", RenderBold(title), RenderID(col.ID))
	if lock := RenderLock(col.EditingDisabled); lock != "" {
		header += " " + lock
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(RenderMuted(fmt.Sprintf("%d card(s), sort %s", len(cards), col.SortBy)))

	for _, card := range cards {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s %s", RenderID(card.ID), card.Title))
		if card.Description != "" {
			b.WriteString("\n")
			b.WriteString(RenderMuted(card.Description))
		}
	}

	return ColumnBox(b.String(), columnWidth, col.EditingDisabled)
}
