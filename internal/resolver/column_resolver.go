package resolver

import (
	"fmt"
	"strconv"
	"strings"

	kberr "github.com/amterp/kanboard/internal/errors"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/prompt"
	"github.com/amterp/kanboard/internal/util"
)

// ColumnResolver turns a user-supplied column reference into a column.
type ColumnResolver struct {
	prompter prompt.Prompter
}

// NewColumnResolver creates a new column resolver.
func NewColumnResolver(prompter prompt.Prompter) *ColumnResolver {
	if prompter == nil {
		prompter = &prompt.NoopPrompter{}
	}
	return &ColumnResolver{prompter: prompter}
}

// Resolve finds a column in snap:
// 1. A numeric ref is matched against column IDs
// 2. Otherwise titles are compared ignoring case, accents and punctuation
// 3. An empty ref prompts when interactive, and fails otherwise
func (r *ColumnResolver) Resolve(snap *model.Snapshot, ref string, interactive bool) (*model.Column, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if !interactive {
			return nil, kberr.InvalidField("column", "a column id or title is required")
		}
		return r.choose(snap)
	}

	if id, err := strconv.Atoi(ref); err == nil {
		for _, col := range snap.Columns {
			if col.ID == id {
				return col, nil
			}
		}
	}

	var matches []*model.Column
	for _, col := range snap.Columns {
		if util.SameTitle(col.Title, ref) {
			matches = append(matches, col)
		}
	}

	switch len(matches) {
	case 0:
		return nil, kberr.ColumnNotFound(ref)
	case 1:
		return matches[0], nil
	default:
		if interactive {
			return r.chooseFrom("Several columns match "+strconv.Quote(ref), matches)
		}
		return nil, kberr.InvalidField("column", fmt.Sprintf("%q matches %d columns; use the column id", ref, len(matches)))
	}
}

func (r *ColumnResolver) choose(snap *model.Snapshot) (*model.Column, error) {
	if len(snap.Columns) == 0 {
		return nil, kberr.InvalidField("column", "the board has no columns")
	}
	return r.chooseFrom("Select column", snap.Columns)
}

func (r *ColumnResolver) chooseFrom(title string, columns []*model.Column) (*model.Column, error) {
	labels := make([]string, len(columns))
	byLabel := make(map[string]*model.Column, len(columns))
	for i, col := range columns {
		labels[i] = ColumnLabel(col)
		byLabel[labels[i]] = col
	}

	picked, err := r.prompter.Select(title, labels)
	if err != nil {
		return nil, err
	}
	col, ok := byLabel[picked]
	if !ok {
		return nil, kberr.ColumnNotFound(picked)
	}
	return col, nil
}

// ColumnLabel is the unique display label used when choosing a column.
func ColumnLabel(col *model.Column) string {
	title := col.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s #%d", title, col.ID)
}
