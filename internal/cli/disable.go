package cli

import (
	"github.com/amterp/ra"
)

func registerDisable(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("disable")
	cmd.SetDescription("Toggle editing for the whole board")
	ctx.DisableUsed, _ = parent.RegisterCmd(cmd)
}

func runDisable(app *App) error {
	if app.Board.ToggleDisableGlobal() {
		PrintSuccess("Editing disabled for every column")
	} else {
		PrintSuccess("Editing enabled")
	}
	return nil
}
