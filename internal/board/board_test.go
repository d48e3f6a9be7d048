package board

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/amterp/kanboard/internal/kv"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBoard returns an initialized board over an in-memory store with a
// fixed random seed and a long debounce, so nothing is written unless a test
// flushes.
func setupBoard(t *testing.T) (*Board, *storage.Adapter) {
	t.Helper()
	adapter := storage.NewAdapter(kv.NewMemoryStore(0), "", zerolog.Nop())
	return newBoard(t, adapter), adapter
}

func newBoard(t *testing.T, adapter *storage.Adapter) *Board {
	t.Helper()
	b := New(adapter, Options{
		Logger:   zerolog.Nop(),
		Rand:     rand.New(rand.NewSource(42)),
		Debounce: time.Hour,
	})
	b.Initialize(context.Background())
	t.Cleanup(func() { b.Close() })
	return b
}

func columnIDs(snap *model.Snapshot) []int {
	ids := make([]int, len(snap.Columns))
	for i, col := range snap.Columns {
		ids[i] = col.ID
	}
	return ids
}

func allCardIDs(snap *model.Snapshot) []int {
	var ids []int
	for _, col := range snap.Columns {
		for _, card := range col.Cards {
			ids = append(ids, card.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// addSavedCard adds a card and saves it so the editing lock is released.
func addSavedCard(t *testing.T, b *Board, columnID int, title string) *model.Card {
	t.Helper()
	card := b.AddCard(columnID)
	require.NotNil(t, card)
	require.True(t, b.UpdateCard(columnID, model.CardData{ID: card.ID, Title: title}))
	return card
}

func TestInitialize_DefaultColumns(t *testing.T) {
	b, _ := setupBoard(t)

	snap := b.Snapshot()
	require.Len(t, snap.Columns, 3)
	for i, want := range []string{"TODO", "In progress", "Done"} {
		col := snap.Columns[i]
		assert.Equal(t, want, col.Title)
		assert.Equal(t, i+1, col.ID)
		assert.False(t, col.IsNew)
		assert.Equal(t, model.SortAsc, col.SortBy)
		assert.Empty(t, col.Cards)
	}
	assert.Equal(t, 4, snap.NextColumnID)
	assert.Equal(t, 1, snap.NextCardID)
	assert.False(t, snap.IsDisabledGlobal)
	assert.Nil(t, b.EditingLock())
}

func TestInitialize_DefaultsAreNotSaved(t *testing.T) {
	b, adapter := setupBoard(t)

	assert.False(t, b.Flush(), "seeding defaults should not schedule a save")
	assert.Nil(t, adapter.Load(context.Background()))
}

func TestInitialize_RestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewAdapter(kv.NewMemoryStore(0), "", zerolog.Nop())
	require.True(t, adapter.Save(ctx, &model.Snapshot{
		Columns: []*model.Column{
			{ID: 7, Title: "Backlog", Cards: []*model.Card{{ID: 12, Title: "x"}}, SortBy: model.SortDesc, EditingDisabled: true},
		},
		NextColumnID:     8,
		NextCardID:       13,
		IsDisabledGlobal: true,
	}))

	b := newBoard(t, adapter)

	snap := b.Snapshot()
	require.Len(t, snap.Columns, 1)
	assert.Equal(t, "Backlog", snap.Columns[0].Title)
	assert.True(t, snap.IsDisabledGlobal)
	assert.Equal(t, 8, snap.NextColumnID)
	assert.Equal(t, 13, snap.NextCardID)
}

func TestInitialize_CountersFallBackAndSkipUsedIDs(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewAdapter(kv.NewMemoryStore(0), "", zerolog.Nop())
	require.True(t, adapter.Save(ctx, &model.Snapshot{
		Columns: []*model.Column{
			{ID: 2, Title: "A", Cards: []*model.Card{{ID: 5}}, SortBy: model.SortAsc},
		},
	}))

	b := newBoard(t, adapter)

	col := b.AddColumn()
	assert.Equal(t, 3, col.ID)
	card := b.AddCard(2)
	require.NotNil(t, card)
	assert.Equal(t, 6, card.ID)
}

func TestInitialize_EmptySavedBoardStaysEmpty(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewAdapter(kv.NewMemoryStore(0), "", zerolog.Nop())
	require.True(t, adapter.Save(ctx, &model.Snapshot{Columns: []*model.Column{}}))

	b := newBoard(t, adapter)

	assert.False(t, b.HasColumns())
	assert.Equal(t, 1, b.AddColumn().ID)
}

func TestAddColumn(t *testing.T) {
	b, _ := setupBoard(t)

	col := b.AddColumn()

	assert.Equal(t, 4, col.ID)
	assert.Equal(t, "", col.Title)
	assert.True(t, col.IsNew)
	assert.False(t, col.EditingDisabled)
	assert.Equal(t, model.SortAsc, col.SortBy)
	assert.Equal(t, []int{1, 2, 3, 4}, columnIDs(b.Snapshot()))
}

func TestUpdateColumnTitle_ClearsIsNew(t *testing.T) {
	b, _ := setupBoard(t)
	col := b.AddColumn()

	require.True(t, b.UpdateColumnTitle("Review", col.ID))

	got := b.Column(col.ID)
	assert.Equal(t, "Review", got.Title)
	assert.False(t, got.IsNew)
	assert.False(t, b.UpdateColumnTitle("x", 99))
}

func TestDeleteColumn(t *testing.T) {
	b, _ := setupBoard(t)
	addSavedCard(t, b, 2, "gone")

	require.True(t, b.DeleteColumn(2))

	snap := b.Snapshot()
	assert.Equal(t, []int{1, 3}, columnIDs(snap))
	assert.Equal(t, 0, snap.TotalCards())
	assert.False(t, b.DeleteColumn(2), "second delete is a no-op")
}

func TestDeleteColumn_ReleasesLock(t *testing.T) {
	b, _ := setupBoard(t)
	require.NotNil(t, b.AddCard(2))

	b.DeleteColumn(2)

	assert.Nil(t, b.EditingLock())
	assert.NotNil(t, b.AddCard(1))
}

func TestDeletedColumnIDIsNotReused(t *testing.T) {
	b, _ := setupBoard(t)
	b.DeleteColumn(3)

	assert.Equal(t, 4, b.AddColumn().ID)
}

func TestShuffleColumns_PreservesSet(t *testing.T) {
	b, _ := setupBoard(t)
	for i := 0; i < 5; i++ {
		b.AddColumn()
	}

	b.ShuffleColumns()

	ids := columnIDs(b.Snapshot())
	sort.Ints(ids)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, ids)
}

func TestToggleColumnEditing(t *testing.T) {
	b, _ := setupBoard(t)

	require.True(t, b.ToggleColumnEditing(1))
	assert.True(t, b.ColumnEditingDisabled(1))
	require.True(t, b.ToggleColumnEditing(1))
	assert.False(t, b.ColumnEditingDisabled(1))
	assert.False(t, b.ToggleColumnEditing(42))
}

func TestAddCard_AcquiresLock(t *testing.T) {
	b, _ := setupBoard(t)

	card := b.AddCard(1)

	require.NotNil(t, card)
	assert.Equal(t, 1, card.ID)
	assert.True(t, card.IsNew)
	assert.Equal(t, "", card.Title)
	assert.Equal(t, &model.EditingLock{CardID: 1, ColumnID: 1, IsNew: true}, b.EditingLock())
}

func TestAddCard_RejectedWhileLocked(t *testing.T) {
	b, _ := setupBoard(t)
	require.NotNil(t, b.AddCard(1))
	before := b.TotalCards()

	assert.Nil(t, b.AddCard(1))
	assert.Nil(t, b.AddCard(2))
	assert.Equal(t, before, b.TotalCards())
}

func TestAddCard_UnknownColumn(t *testing.T) {
	b, _ := setupBoard(t)

	assert.Nil(t, b.AddCard(99))
	assert.Nil(t, b.EditingLock())
	assert.Equal(t, 1, b.AddCard(1).ID, "rejected add must not consume an id")
}

func TestCardIDsIncreaseAndAreNeverReused(t *testing.T) {
	b, _ := setupBoard(t)

	var issued []int
	for i := 0; i < 6; i++ {
		card := addSavedCard(t, b, 1+i%3, "c")
		issued = append(issued, card.ID)
		if i%2 == 0 {
			b.DeleteCard(1+i%3, card.ID)
		}
	}
	b.ClearCards(2)

	for i := 1; i < len(issued); i++ {
		assert.Greater(t, issued[i], issued[i-1])
	}
	assert.Equal(t, issued[len(issued)-1]+1, addSavedCard(t, b, 1, "next").ID)
}

func TestUpdateCard(t *testing.T) {
	b, _ := setupBoard(t)
	card := b.AddCard(1)

	ok := b.UpdateCard(1, model.CardData{ID: card.ID, Title: "Write tests", Description: "all of them"})

	require.True(t, ok)
	got := b.Column(1).FindCard(card.ID)
	assert.Equal(t, "Write tests", got.Title)
	assert.Equal(t, "all of them", got.Description)
	assert.False(t, got.IsNew)
	assert.Nil(t, b.EditingLock())
}

func TestUpdateCard_OtherCardKeepsLock(t *testing.T) {
	b, _ := setupBoard(t)
	first := addSavedCard(t, b, 1, "first")
	require.NotNil(t, b.AddCard(1))

	require.True(t, b.UpdateCard(1, model.CardData{ID: first.ID, Title: "renamed"}))

	assert.NotNil(t, b.EditingLock())
}

func TestUpdateCard_NotFound(t *testing.T) {
	b, _ := setupBoard(t)

	assert.False(t, b.UpdateCard(1, model.CardData{ID: 5, Title: "x"}))
	assert.False(t, b.UpdateCard(9, model.CardData{ID: 1, Title: "x"}))
}

func TestDeleteCard_ReleasesMatchingLock(t *testing.T) {
	b, _ := setupBoard(t)
	card := b.AddCard(1)

	require.True(t, b.DeleteCard(1, card.ID))

	assert.Nil(t, b.EditingLock())
	assert.Equal(t, 0, b.TotalCards())
}

func TestDeleteCard_WrongColumnIsNoOp(t *testing.T) {
	b, _ := setupBoard(t)
	card := addSavedCard(t, b, 1, "stay")

	assert.False(t, b.DeleteCard(2, card.ID))
	assert.Equal(t, 1, b.TotalCards())
}

func TestCancelEditing_NewCardIsRemoved(t *testing.T) {
	b, _ := setupBoard(t)
	keep := addSavedCard(t, b, 1, "keep")
	draft := b.AddCard(1)

	lock := b.CancelCurrentEditing()

	require.NotNil(t, lock)
	assert.Equal(t, draft.ID, lock.CardID)
	assert.Nil(t, b.EditingLock())
	assert.Equal(t, []int{keep.ID}, allCardIDs(b.Snapshot()))
}

func TestCancelEditing_ExistingCardIsKept(t *testing.T) {
	b, _ := setupBoard(t)
	card := addSavedCard(t, b, 1, "existing")
	require.True(t, b.StartEditing(1, card.ID))

	lock := b.CancelCurrentEditing()

	require.NotNil(t, lock)
	assert.False(t, lock.IsNew)
	assert.Equal(t, []int{card.ID}, allCardIDs(b.Snapshot()))
}

func TestCancelEditing_Idle(t *testing.T) {
	b, _ := setupBoard(t)

	assert.Nil(t, b.CancelCurrentEditing())
}

func TestStartEditing(t *testing.T) {
	b, _ := setupBoard(t)
	a := addSavedCard(t, b, 1, "a")
	c := addSavedCard(t, b, 2, "c")

	assert.False(t, b.StartEditing(2, a.ID), "card is not in that column")
	require.True(t, b.StartEditing(1, a.ID))
	assert.False(t, b.StartEditing(2, c.ID), "only one edit at a time")
	assert.Equal(t, &model.EditingLock{CardID: a.ID, ColumnID: 1}, b.EditingLock())
}

func TestToggleSortBy_DoesNotReorder(t *testing.T) {
	b, _ := setupBoard(t)
	addSavedCard(t, b, 1, "beta")
	addSavedCard(t, b, 1, "Alpha")
	addSavedCard(t, b, 1, "gamma")

	require.True(t, b.ToggleSortBy(1))

	col := b.Column(1)
	assert.Equal(t, model.SortDesc, col.SortBy)
	assert.Equal(t, []int{1, 2, 3}, []int{col.Cards[0].ID, col.Cards[1].ID, col.Cards[2].ID})

	sorted := b.SortedCards(1)
	require.Len(t, sorted, 3)
	assert.Equal(t, "gamma", sorted[0].Title)
	assert.Equal(t, "Alpha", sorted[2].Title)
}

func TestClearCards(t *testing.T) {
	b, _ := setupBoard(t)
	addSavedCard(t, b, 1, "a")
	addSavedCard(t, b, 1, "b")
	other := addSavedCard(t, b, 2, "c")
	require.NotNil(t, b.AddCard(1))

	require.True(t, b.ClearCards(1))

	assert.Empty(t, b.Column(1).Cards)
	assert.Equal(t, []int{other.ID}, allCardIDs(b.Snapshot()))
	assert.Nil(t, b.EditingLock())
}

func TestShuffleCards_PreservesPartition(t *testing.T) {
	b, _ := setupBoard(t)
	for i := 0; i < 9; i++ {
		addSavedCard(t, b, 1+i%3, "c")
	}
	before := allCardIDs(b.Snapshot())

	b.ShuffleCards()

	snap := b.Snapshot()
	assert.Equal(t, before, allCardIDs(snap))
	assert.Equal(t, []int{1, 2, 3}, columnIDs(snap))
}

func TestShuffleCards_LockFollowsCard(t *testing.T) {
	b, _ := setupBoard(t)
	for i := 0; i < 5; i++ {
		addSavedCard(t, b, 1+i%3, "c")
	}
	require.True(t, b.StartEditing(1, 1))

	b.ShuffleCards()

	lock := b.EditingLock()
	require.NotNil(t, lock)
	col := b.Column(lock.ColumnID)
	require.NotNil(t, col)
	assert.NotNil(t, col.FindCard(lock.CardID))
}

func TestShuffleCards_NoColumns(t *testing.T) {
	b, _ := setupBoard(t)
	for _, id := range []int{1, 2, 3} {
		b.DeleteColumn(id)
	}

	assert.NotPanics(t, b.ShuffleCards)
}

func TestHandleCardDrop(t *testing.T) {
	b, _ := setupBoard(t)
	a := addSavedCard(t, b, 1, "a")
	addSavedCard(t, b, 2, "b")

	require.True(t, b.HandleCardDrop(model.DropInstruction{CardID: a.ID, FromColumnID: 1}.To(2)))

	assert.Empty(t, b.Column(1).Cards)
	col2 := b.Column(2)
	require.Len(t, col2.Cards, 2)
	assert.Equal(t, a.ID, col2.Cards[1].ID, "dropped card goes to the end")
}

func TestHandleCardDrop_NoOps(t *testing.T) {
	b, _ := setupBoard(t)
	a := addSavedCard(t, b, 1, "a")
	addSavedCard(t, b, 1, "b")
	before := b.Snapshot()

	tests := []struct {
		name string
		move model.CardMove
	}{
		{"same column", model.CardMove{CardID: a.ID, FromColumnID: 1, ToColumnID: 1}},
		{"unknown source", model.CardMove{CardID: a.ID, FromColumnID: 9, ToColumnID: 2}},
		{"unknown destination", model.CardMove{CardID: a.ID, FromColumnID: 1, ToColumnID: 9}},
		{"card not in source", model.CardMove{CardID: a.ID, FromColumnID: 2, ToColumnID: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, b.HandleCardDrop(tt.move))
			assert.Equal(t, before, b.Snapshot())
		})
	}
}

func TestHandleCardDrop_LockFollowsCard(t *testing.T) {
	b, _ := setupBoard(t)
	card := b.AddCard(1)

	require.True(t, b.HandleCardDrop(model.CardMove{CardID: card.ID, FromColumnID: 1, ToColumnID: 3}))

	assert.Equal(t, &model.EditingLock{CardID: card.ID, ColumnID: 3, IsNew: true}, b.EditingLock())
	require.True(t, b.UpdateCard(3, model.CardData{ID: card.ID, Title: "moved"}))
	assert.Nil(t, b.EditingLock())
}

func TestToggleDisableGlobal(t *testing.T) {
	b, _ := setupBoard(t)
	require.True(t, b.ToggleColumnEditing(2))

	assert.True(t, b.ToggleDisableGlobal())
	for _, col := range b.Snapshot().Columns {
		assert.True(t, col.EditingDisabled)
	}

	assert.False(t, b.ToggleDisableGlobal())
	for _, col := range b.Snapshot().Columns {
		assert.False(t, col.EditingDisabled, "global toggle overwrites per-column state")
	}
}

func TestScenario_AddColumnThenLockedAdd(t *testing.T) {
	b, _ := setupBoard(t)

	col := b.AddColumn()
	card := b.AddCard(col.ID)
	require.NotNil(t, card)

	assert.Nil(t, b.AddCard(col.ID))
	assert.Len(t, b.Column(col.ID).Cards, 1)
}

func TestScenario_GlobalDisableInheritedByNewColumn(t *testing.T) {
	b, _ := setupBoard(t)
	b.ToggleDisableGlobal()

	col := b.AddColumn()

	assert.True(t, col.EditingDisabled)
	assert.True(t, b.ColumnEditingDisabled(col.ID))
}

func TestAutoSave_PersistsAfterFlush(t *testing.T) {
	b, adapter := setupBoard(t)
	addSavedCard(t, b, 2, "persist me")
	b.ToggleDisableGlobal()

	require.True(t, b.Flush())

	saved := adapter.Load(context.Background())
	require.NotNil(t, saved)
	snap := b.Snapshot()
	snap.Version = saved.Version
	assert.Equal(t, snap, saved)

	reopened := newBoard(t, adapter)
	assert.Equal(t, b.Snapshot(), reopened.Snapshot())
}

func TestAutoSave_DebouncedWrite(t *testing.T) {
	adapter := storage.NewAdapter(kv.NewMemoryStore(0), "", zerolog.Nop())
	b := New(adapter, Options{Logger: zerolog.Nop(), Rand: rand.New(rand.NewSource(1)), Debounce: 20 * time.Millisecond})
	b.Initialize(context.Background())
	defer b.Close()

	b.AddColumn()
	b.UpdateColumnTitle("Later", 4)

	assert.Eventually(t, func() bool {
		snap := adapter.Load(context.Background())
		return snap != nil && len(snap.Columns) == 4 && snap.Columns[3].Title == "Later"
	}, time.Second, 10*time.Millisecond)
}

func TestClose_FlushesPendingChange(t *testing.T) {
	b, adapter := setupBoard(t)
	b.AddColumn()

	b.Close()

	saved := adapter.Load(context.Background())
	require.NotNil(t, saved)
	assert.Len(t, saved.Columns, 4)
}

func TestNoOpsDoNotScheduleSave(t *testing.T) {
	b, _ := setupBoard(t)

	b.DeleteColumn(99)
	b.UpdateCard(1, model.CardData{ID: 1})
	b.HandleCardDrop(model.CardMove{CardID: 1, FromColumnID: 1, ToColumnID: 1})

	assert.False(t, b.Flush())
}

func TestSubscribe(t *testing.T) {
	b, _ := setupBoard(t)

	var mu sync.Mutex
	var ops []string
	unsubscribe := b.Subscribe(func(c Change) {
		mu.Lock()
		ops = append(ops, c.Op)
		mu.Unlock()
		// callbacks run outside the board lock
		_ = b.Snapshot()
	})

	b.AddColumn()
	b.DeleteColumn(99)
	b.ToggleDisableGlobal()
	unsubscribe()
	b.ShuffleColumns()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"column.add", "board.disable"}, ops)
}

func TestConcurrentOperations(t *testing.T) {
	b, _ := setupBoard(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if card := b.AddCard(1 + (i+j)%3); card != nil {
					b.UpdateCard(1+(i+j)%3, model.CardData{ID: card.ID, Title: "x"})
				}
				b.ShuffleCards()
				_ = b.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	ids := allCardIDs(b.Snapshot())
	for i := 1; i < len(ids); i++ {
		assert.NotEqual(t, ids[i], ids[i-1], "duplicate card id")
	}
}
