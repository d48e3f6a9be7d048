package cli

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/kanboard/internal/model"
)

// columnJson is a column as rendered for --json output: cards appear in
// display order and carry their position.
type columnJson struct {
	ID              int          `json:"id"`
	Title           string       `json:"title"`
	EditingDisabled bool         `json:"editing_disabled"`
	SortBy          model.SortBy `json:"sort_by"`
	CardCount       int          `json:"card_count"`
	Cards           []cardJson   `json:"cards"`
}

type cardJson struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`
}

// ShowOutput wraps the whole board for JSON output.
type ShowOutput struct {
	Columns          []columnJson       `json:"columns"`
	TotalCards       int                `json:"total_cards"`
	IsDisabledGlobal bool               `json:"is_disabled_global"`
	EditingLock      *model.EditingLock `json:"editing_lock,omitempty"`
}

// NewShowOutput builds the JSON view of a board. sorted maps a column ID to
// its cards in display order.
// Always returns empty arrays (not null) when there are no columns or cards.
func NewShowOutput(snap *model.Snapshot, sorted func(columnID int) []*model.Card, lock *model.EditingLock) ShowOutput {
	out := ShowOutput{
		Columns:          make([]columnJson, 0, len(snap.Columns)),
		TotalCards:       snap.TotalCards(),
		IsDisabledGlobal: snap.IsDisabledGlobal,
		EditingLock:      lock,
	}
	for _, col := range snap.Columns {
		cards := sorted(col.ID)
		cj := columnJson{
			ID:              col.ID,
			Title:           col.Title,
			EditingDisabled: col.EditingDisabled,
			SortBy:          col.SortBy,
			CardCount:       len(cards),
			Cards:           make([]cardJson, 0, len(cards)),
		}
		for i, card := range cards {
			cj.Cards = append(cj.Cards, cardJson{
				ID:          card.ID,
				Title:       card.Title,
				Description: card.Description,
				Position:    i,
			})
		}
		out.Columns = append(out.Columns, cj)
	}
	return out
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
