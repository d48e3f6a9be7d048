package model

// SortBy is the display order a column requests for its cards.
type SortBy string

const (
	SortAsc  SortBy = "asc"
	SortDesc SortBy = "desc"
)

// Toggle returns the opposite direction. Unknown values flip to ascending.
func (s SortBy) Toggle() SortBy {
	if s == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Column represents a kanban column and the cards it holds, in display order.
type Column struct {
	ID              int     `json:"id" yaml:"id" toml:"id"`
	Title           string  `json:"title" yaml:"title" toml:"title"`
	Cards           []*Card `json:"cards" yaml:"cards" toml:"cards"`
	IsNew           bool    `json:"isNew" yaml:"isNew" toml:"isNew"`
	EditingDisabled bool    `json:"editingDisabled" yaml:"editingDisabled" toml:"editingDisabled"`
	SortBy          SortBy  `json:"sortBy" yaml:"sortBy" toml:"sortBy"`
}

// DefaultColumnTitles are seeded into a board that has no saved state.
var DefaultColumnTitles = []string{"TODO", "In progress", "Done"}

// NewColumn returns an empty column with ascending sort.
func NewColumn(id int, title string) *Column {
	return &Column{
		ID:     id,
		Title:  title,
		Cards:  []*Card{},
		SortBy: SortAsc,
	}
}

// CardIndex returns the index of the card with the given ID, or -1 if not found.
func (c *Column) CardIndex(cardID int) int {
	for i, card := range c.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}

// FindCard returns the card with the given ID, or nil.
func (c *Column) FindCard(cardID int) *Card {
	if i := c.CardIndex(cardID); i >= 0 {
		return c.Cards[i]
	}
	return nil
}

// AppendCard adds a card to the end of the column.
func (c *Column) AppendCard(card *Card) {
	c.Cards = append(c.Cards, card)
}

// RemoveCard removes the card with the given ID and returns it.
// Returns nil if the card is not in this column.
func (c *Column) RemoveCard(cardID int) *Card {
	i := c.CardIndex(cardID)
	if i < 0 {
		return nil
	}
	card := c.Cards[i]
	c.Cards = append(c.Cards[:i], c.Cards[i+1:]...)
	return card
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := *c
	out.Cards = make([]*Card, len(c.Cards))
	for i, card := range c.Cards {
		out.Cards[i] = card.Clone()
	}
	return &out
}

// EditingLock identifies the single card currently open for editing.
type EditingLock struct {
	CardID   int  `json:"cardId"`
	ColumnID int  `json:"columnId"`
	IsNew    bool `json:"isNew"`
}

// Matches reports whether the lock points at the given card in the given column.
func (l *EditingLock) Matches(columnID, cardID int) bool {
	return l != nil && l.CardID == cardID && l.ColumnID == columnID
}

// DropInstruction is produced by a drop on a column. The destination column is
// implied by the drop target and supplied separately.
type DropInstruction struct {
	CardID       int `json:"cardId"`
	FromColumnID int `json:"fromColumnId"`
}

// CardMove moves a card between two columns.
type CardMove struct {
	CardID       int `json:"cardId"`
	FromColumnID int `json:"fromColumnId"`
	ToColumnID   int `json:"toColumnId"`
}

// To completes a drop instruction with its destination column.
func (d DropInstruction) To(columnID int) CardMove {
	return CardMove{CardID: d.CardID, FromColumnID: d.FromColumnID, ToColumnID: columnID}
}
