package board

import (
	"math/rand"

	"github.com/amterp/kanboard/internal/model"
)

// Notifier is told about every applied mutation, named by operation.
type Notifier func(op string)

// ColumnStore owns the ordered column collection.
// Lookups that miss are silent no-ops so callers never need to guard against
// stale ids. Not safe for concurrent use; Board serializes access.
type ColumnStore struct {
	columns  []*model.Column
	ids      *Counter
	disabled *Flag
	rng      *rand.Rand
	notify   Notifier
}

// NewColumnStore creates an empty column store. ids allocates column ids and
// disabled is the board-wide flag new columns inherit.
func NewColumnStore(ids *Counter, disabled *Flag, rng *rand.Rand, notify Notifier) *ColumnStore {
	if notify == nil {
		notify = func(string) {}
	}
	return &ColumnStore{
		columns:  []*model.Column{},
		ids:      ids,
		disabled: disabled,
		rng:      rng,
		notify:   notify,
	}
}

// Columns returns the live column sequence. Callers must not modify it.
func (s *ColumnStore) Columns() []*model.Column {
	return s.columns
}

// HasColumns reports whether the board has any column.
func (s *ColumnStore) HasColumns() bool {
	return len(s.columns) > 0
}

// Replace swaps in a restored column sequence.
func (s *ColumnStore) Replace(columns []*model.Column) {
	if columns == nil {
		columns = []*model.Column{}
	}
	s.columns = columns
}

// FindColumnByID returns the column with the given ID, or nil.
func (s *ColumnStore) FindColumnByID(columnID int) *model.Column {
	if i := s.index(columnID); i >= 0 {
		return s.columns[i]
	}
	return nil
}

func (s *ColumnStore) index(columnID int) int {
	for i, col := range s.columns {
		if col.ID == columnID {
			return i
		}
	}
	return -1
}

// CreateDefaultColumns seeds the default columns. Only used when there is no
// saved state, so it does not notify.
func (s *ColumnStore) CreateDefaultColumns() {
	for _, title := range model.DefaultColumnTitles {
		col := model.NewColumn(s.ids.Next(), title)
		col.EditingDisabled = s.disabled.On()
		s.columns = append(s.columns, col)
	}
}

// AddColumn appends an untitled column that is new until its first title edit.
func (s *ColumnStore) AddColumn() *model.Column {
	col := model.NewColumn(s.ids.Next(), "")
	col.IsNew = true
	col.EditingDisabled = s.disabled.On()
	s.columns = append(s.columns, col)
	s.notify("column.add")
	return col
}

// DeleteColumn removes the column and its cards.
func (s *ColumnStore) DeleteColumn(columnID int) bool {
	i := s.index(columnID)
	if i < 0 {
		return false
	}
	s.columns = append(s.columns[:i], s.columns[i+1:]...)
	s.notify("column.delete")
	return true
}

// UpdateColumnTitle sets the title and marks the column as no longer new.
func (s *ColumnStore) UpdateColumnTitle(title string, columnID int) bool {
	col := s.FindColumnByID(columnID)
	if col == nil {
		return false
	}
	col.Title = title
	col.IsNew = false
	s.notify("column.title")
	return true
}

// ShuffleColumns permutes the column order uniformly (Fisher–Yates).
func (s *ColumnStore) ShuffleColumns() {
	for i := len(s.columns) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		s.columns[i], s.columns[j] = s.columns[j], s.columns[i]
	}
	s.notify("column.shuffle")
}

// ToggleColumnEditing flips the column's own edit lock.
func (s *ColumnStore) ToggleColumnEditing(columnID int) bool {
	col := s.FindColumnByID(columnID)
	if col == nil {
		return false
	}
	col.EditingDisabled = !col.EditingDisabled
	s.notify("column.toggle-editing")
	return true
}

// SetAllEditingDisabled writes the value onto every column.
func (s *ColumnStore) SetAllEditingDisabled(disabled bool) {
	for _, col := range s.columns {
		col.EditingDisabled = disabled
	}
}
