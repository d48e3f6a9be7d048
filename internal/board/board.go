// Package board holds the in-memory kanban board: columns, cards, the single
// editing lock and the board-wide edit switch. Every mutation is persisted
// through a debounced auto-save once Initialize has run.
package board

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/storage"
	"github.com/rs/zerolog"
)

// Change describes an applied mutation.
type Change struct {
	Op string `json:"op"`
}

// Options configures a Board.
type Options struct {
	Logger   zerolog.Logger
	Rand     *rand.Rand    // nil seeds from the clock
	Debounce time.Duration // zero means storage.DefaultDebounce
}

// Board is the orchestrator the CLI and HTTP surfaces talk to. All methods are
// safe for concurrent use.
type Board struct {
	mu sync.Mutex

	adapter  *storage.Adapter
	saver    *storage.AutoSaver
	logger   zerolog.Logger
	debounce time.Duration

	columnIDs *Counter
	cardIDs   *Counter
	disabled  *Flag
	editor    *Editor
	columns   *ColumnStore
	cards     *CardStore

	changes     []Change // collected under mu, dispatched after unlock
	subMu       sync.Mutex
	subscribers map[int]func(Change)
	nextSub     int
}

// New wires an empty board to adapter. Call Initialize before use.
func New(adapter *storage.Adapter, opts Options) *Board {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &Board{
		adapter:     adapter,
		logger:      opts.Logger.With().Str("component", "board").Logger(),
		debounce:    opts.Debounce,
		columnIDs:   NewCounter(1),
		cardIDs:     NewCounter(1),
		disabled:    &Flag{},
		editor:      NewEditor(),
		subscribers: make(map[int]func(Change)),
	}
	b.columns = NewColumnStore(b.columnIDs, b.disabled, rng, b.record)
	b.cards = NewCardStore(b.columns, b.cardIDs, b.editor, rng, b.record)
	return b
}

// Initialize restores the saved board, or seeds the default columns when
// there is none, then starts auto-saving.
func (b *Board) Initialize(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if snap := b.adapter.Load(ctx); snap != nil {
		b.restore(snap)
		b.logger.Debug().
			Int("columns", len(snap.Columns)).
			Int("cards", snap.TotalCards()).
			Msg("restored board")
	} else {
		b.columns.CreateDefaultColumns()
		b.logger.Debug().Msg("no saved board, created default columns")
	}

	b.saver = b.adapter.SetupAutoSave(b.Snapshot, b.debounce)
}

// restore installs snap. Counters never go below an id already in use.
func (b *Board) restore(snap *model.Snapshot) {
	columns := model.CloneColumns(snap.Columns)

	maxColumn, maxCard := 0, 0
	for _, col := range columns {
		maxColumn = max(maxColumn, col.ID)
		for _, card := range col.Cards {
			maxCard = max(maxCard, card.ID)
		}
	}

	b.columns.Replace(columns)
	b.columnIDs.Reset(max(snap.NextColumnID, maxColumn+1))
	b.cardIDs.Reset(max(snap.NextCardID, maxCard+1))
	b.disabled.Set(snap.IsDisabledGlobal)
}

// Close writes any pending change and stops auto-saving.
func (b *Board) Close() {
	b.mu.Lock()
	saver := b.saver
	b.mu.Unlock()

	if saver == nil {
		return
	}
	saver.Flush()
	saver.Stop()
}

// Flush writes any pending change now. Reports whether a write happened.
func (b *Board) Flush() bool {
	b.mu.Lock()
	saver := b.saver
	b.mu.Unlock()

	if saver == nil {
		return false
	}
	return saver.Flush()
}

// Subscribe registers fn to receive every applied change. fn runs outside the
// board lock and may call back into the board. The returned func unsubscribes.
func (b *Board) Subscribe(fn func(Change)) func() {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subscribers[id] = fn
	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subscribers, id)
	}
}

func (b *Board) record(op string) {
	b.changes = append(b.changes, Change{Op: op})
	if b.saver != nil {
		b.saver.Notify()
	}
}

// unlock releases mu and dispatches the changes recorded while it was held.
func (b *Board) unlock() {
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	if len(changes) == 0 {
		return
	}

	b.subMu.Lock()
	fns := make([]func(Change), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()

	for _, c := range changes {
		for _, fn := range fns {
			fn(c)
		}
	}
}

// Snapshot returns a deep copy of the persisted board state.
func (b *Board) Snapshot() *model.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Board) snapshot() *model.Snapshot {
	return &model.Snapshot{
		Columns:          model.CloneColumns(b.columns.Columns()),
		NextColumnID:     b.columnIDs.Peek(),
		NextCardID:       b.cardIDs.Peek(),
		IsDisabledGlobal: b.disabled.On(),
	}
}

// Column returns a copy of the column, or nil.
func (b *Board) Column(columnID int) *model.Column {
	b.mu.Lock()
	defer b.mu.Unlock()

	if col := b.columns.FindColumnByID(columnID); col != nil {
		return col.Clone()
	}
	return nil
}

// HasColumns reports whether the board has any column.
func (b *Board) HasColumns() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.columns.HasColumns()
}

// TotalCards returns the number of cards on the board.
func (b *Board) TotalCards() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cards.TotalCards()
}

// SortedCards returns copies of the column's cards ordered by its sort
// direction. The stored order is unchanged.
func (b *Board) SortedCards(columnID int) []*model.Card {
	b.mu.Lock()
	defer b.mu.Unlock()

	col := b.columns.FindColumnByID(columnID)
	if col == nil {
		return nil
	}
	sorted := model.SortCards(col.Cards, col.SortBy)
	for i, card := range sorted {
		sorted[i] = card.Clone()
	}
	return sorted
}

// EditingLock returns the current lock, or nil when nothing is being edited.
func (b *Board) EditingLock() *model.EditingLock {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editor.Current()
}

// IsDisabledGlobal reports whether editing is disabled board-wide.
func (b *Board) IsDisabledGlobal() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled.On()
}

// ColumnEditingDisabled reports whether the column refuses edits and drops.
// Unknown columns report false.
func (b *Board) ColumnEditingDisabled(columnID int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	col := b.columns.FindColumnByID(columnID)
	return col != nil && col.EditingDisabled
}

// AddColumn appends an untitled column and returns a copy of it.
func (b *Board) AddColumn() *model.Column {
	b.mu.Lock()
	defer b.unlock()
	return b.columns.AddColumn().Clone()
}

// DeleteColumn removes the column and its cards.
func (b *Board) DeleteColumn(columnID int) bool {
	b.mu.Lock()
	defer b.unlock()

	if !b.columns.DeleteColumn(columnID) {
		return false
	}
	b.editor.ReleaseColumn(columnID)
	return true
}

// UpdateColumnTitle renames the column.
func (b *Board) UpdateColumnTitle(title string, columnID int) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.columns.UpdateColumnTitle(title, columnID)
}

// ShuffleColumns randomizes the column order.
func (b *Board) ShuffleColumns() {
	b.mu.Lock()
	defer b.unlock()
	b.columns.ShuffleColumns()
}

// ToggleColumnEditing flips the column's own edit lock.
func (b *Board) ToggleColumnEditing(columnID int) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.columns.ToggleColumnEditing(columnID)
}

// ToggleDisableGlobal flips the board-wide switch and writes it onto every
// column. Returns the new value.
func (b *Board) ToggleDisableGlobal() bool {
	b.mu.Lock()
	defer b.unlock()

	on := b.disabled.Toggle()
	b.columns.SetAllEditingDisabled(on)
	b.record("board.disable")
	return on
}

// AddCard creates an empty card in the column and opens it for editing.
// Returns nil if another card is being edited or the column does not exist.
func (b *Board) AddCard(columnID int) *model.Card {
	b.mu.Lock()
	defer b.unlock()

	if card := b.cards.AddCard(columnID); card != nil {
		return card.Clone()
	}
	return nil
}

// DeleteCard removes the card.
func (b *Board) DeleteCard(columnID, cardID int) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.cards.DeleteCard(columnID, cardID)
}

// UpdateCard saves the card's title and description.
func (b *Board) UpdateCard(columnID int, data model.CardData) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.cards.UpdateCard(columnID, data)
}

// ToggleSortBy flips the column's sort direction.
func (b *Board) ToggleSortBy(columnID int) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.cards.ToggleSortBy(columnID)
}

// ClearCards removes every card from the column.
func (b *Board) ClearCards(columnID int) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.cards.ClearCards(columnID)
}

// ShuffleCards redistributes every card across random columns.
func (b *Board) ShuffleCards() {
	b.mu.Lock()
	defer b.unlock()
	b.cards.ShuffleCards()
}

// HandleCardDrop moves a card to the end of another column.
func (b *Board) HandleCardDrop(move model.CardMove) bool {
	b.mu.Lock()
	defer b.unlock()
	return b.cards.HandleCardDrop(move)
}

// StartEditing opens an existing card for editing. Returns false if another
// card is being edited or the card is not in the column.
func (b *Board) StartEditing(columnID, cardID int) bool {
	b.mu.Lock()
	defer b.unlock()

	col := b.columns.FindColumnByID(columnID)
	if col == nil || col.FindCard(cardID) == nil {
		return false
	}
	return b.editor.Acquire(columnID, cardID, false)
}

// CancelCurrentEditing closes the open edit. A card created for that edit and
// never saved is deleted. Returns the lock that was released, or nil.
func (b *Board) CancelCurrentEditing() *model.EditingLock {
	b.mu.Lock()
	defer b.unlock()

	return b.editor.Cancel(func(columnID, cardID int) {
		b.cards.DeleteCard(columnID, cardID)
	})
}
