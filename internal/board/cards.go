package board

import (
	"math/rand"

	"github.com/amterp/kanboard/internal/model"
)

// CardStore owns the cards nested in the column store's columns.
// Not safe for concurrent use; Board serializes access.
type CardStore struct {
	columns *ColumnStore
	ids     *Counter
	editor  *Editor
	rng     *rand.Rand
	notify  Notifier
}

// NewCardStore creates a card store over columns. ids is the single board-wide
// card id counter and editor the board's editing lock.
func NewCardStore(columns *ColumnStore, ids *Counter, editor *Editor, rng *rand.Rand, notify Notifier) *CardStore {
	if notify == nil {
		notify = func(string) {}
	}
	return &CardStore{
		columns: columns,
		ids:     ids,
		editor:  editor,
		rng:     rng,
		notify:  notify,
	}
}

// TotalCards returns the number of cards on the board.
func (s *CardStore) TotalCards() int {
	total := 0
	for _, col := range s.columns.Columns() {
		total += len(col.Cards)
	}
	return total
}

// AddCard appends an empty new card to the column and opens it for editing.
// Returns nil without side effects if an edit is already open or the column
// does not exist.
func (s *CardStore) AddCard(columnID int) *model.Card {
	if s.editor.Locked() {
		return nil
	}
	col := s.columns.FindColumnByID(columnID)
	if col == nil {
		return nil
	}

	card := &model.Card{
		ID:          s.ids.Next(),
		Title:       "",
		Description: "",
		IsNew:       true,
	}
	col.AppendCard(card)
	s.editor.Acquire(columnID, card.ID, true)
	s.notify("card.add")
	return card
}

// DeleteCard removes the card and closes its edit if it was open.
func (s *CardStore) DeleteCard(columnID, cardID int) bool {
	col := s.columns.FindColumnByID(columnID)
	if col == nil {
		return false
	}
	if col.RemoveCard(cardID) == nil {
		return false
	}
	s.editor.ReleaseIf(columnID, cardID)
	s.notify("card.delete")
	return true
}

// UpdateCard saves title and description, marks the card as saved and closes
// its edit if it was open.
func (s *CardStore) UpdateCard(columnID int, data model.CardData) bool {
	col := s.columns.FindColumnByID(columnID)
	if col == nil {
		return false
	}
	card := col.FindCard(data.ID)
	if card == nil {
		return false
	}

	card.Title = data.Title
	card.Description = data.Description
	card.IsNew = false
	s.editor.ReleaseIf(columnID, data.ID)
	s.notify("card.update")
	return true
}

// ToggleSortBy flips the column's sort direction. The stored order is not
// changed; renderers sort a copy.
func (s *CardStore) ToggleSortBy(columnID int) bool {
	col := s.columns.FindColumnByID(columnID)
	if col == nil {
		return false
	}
	col.SortBy = col.SortBy.Toggle()
	s.notify("column.toggle-sort")
	return true
}

// ClearCards removes every card from the column.
func (s *CardStore) ClearCards(columnID int) bool {
	col := s.columns.FindColumnByID(columnID)
	if col == nil {
		return false
	}
	col.Cards = col.Cards[:0:0]
	s.editor.ReleaseColumn(columnID)
	s.notify("column.clear")
	return true
}

// ShuffleCards drains every column into one pool, then repeatedly appends a
// random remaining card to a random column until the pool is empty. Columns
// may end up empty or overloaded by chance.
func (s *CardStore) ShuffleCards() {
	columns := s.columns.Columns()

	var pool []*model.Card
	var owner = make(map[int]int) // card id -> original column id
	for _, col := range columns {
		for _, card := range col.Cards {
			owner[card.ID] = col.ID
		}
		pool = append(pool, col.Cards...)
		col.Cards = []*model.Card{}
	}

	for len(pool) > 0 {
		ci := s.rng.Intn(len(pool))
		col := columns[s.rng.Intn(len(columns))]
		card := pool[ci]
		col.AppendCard(card)
		s.editor.Follow(card.ID, owner[card.ID], col.ID)
		pool = append(pool[:ci], pool[ci+1:]...)
	}
	s.notify("card.shuffle")
}

// HandleCardDrop moves a card to the end of another column. Same-column drops
// and unknown columns or cards leave the board unchanged.
func (s *CardStore) HandleCardDrop(move model.CardMove) bool {
	if move.FromColumnID == move.ToColumnID {
		return false
	}
	from := s.columns.FindColumnByID(move.FromColumnID)
	to := s.columns.FindColumnByID(move.ToColumnID)
	if from == nil || to == nil {
		return false
	}

	card := from.RemoveCard(move.CardID)
	if card == nil {
		return false
	}
	to.AppendCard(card)
	s.editor.Follow(move.CardID, move.FromColumnID, move.ToColumnID)
	s.notify("card.move")
	return true
}
