package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/ra"
	"gopkg.in/yaml.v3"
)

// Export formats accepted by 'kanboard export'.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

func registerExport(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("export")
	cmd.SetDescription("Write the board state as JSON, YAML or TOML")

	ctx.ExportFormat, _ = ra.NewString("format").
		SetShort("f").
		SetOptional(true).
		SetDefault(FormatJSON).
		SetFlagOnly(true).
		SetEnumConstraint([]string{FormatJSON, FormatYAML, FormatTOML}).
		SetUsage("Output format").
		Register(cmd)

	ctx.ExportOutput, _ = ra.NewString("output").
		SetShort("o").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("File to write instead of stdout").
		Register(cmd)

	ctx.ExportUsed, _ = parent.RegisterCmd(cmd)
}

func runExport(app *App, format, output string) error {
	data, err := EncodeSnapshot(app.Board.Snapshot(), format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	PrintSuccess("Exported board to %s", output)
	return nil
}

// EncodeSnapshot renders a snapshot in the given export format.
func EncodeSnapshot(snap *model.Snapshot, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSnapshot(&buf, snap, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSnapshot(w io.Writer, snap *model.Snapshot, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(snap)
	default:
		return fmt.Errorf("unsupported export format %q (want json, yaml or toml)", format)
	}
}
