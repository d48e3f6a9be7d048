package testutil

import (
	"os"
	"testing"

	"github.com/amterp/kanboard/internal/config"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/storage"
)

// TestCard returns a saved card with sensible test defaults.
func TestCard(id int, title string) *model.Card {
	return &model.Card{
		ID:          id,
		Title:       title,
		Description: "test description",
	}
}

// TestSnapshot returns a board with the default columns, the given cards in
// the first one, and counters past every used ID.
func TestSnapshot(cards ...*model.Card) *model.Snapshot {
	snap := &model.Snapshot{NextCardID: 1}
	for i, title := range model.DefaultColumnTitles {
		snap.Columns = append(snap.Columns, model.NewColumn(i+1, title))
	}
	snap.NextColumnID = len(snap.Columns) + 1

	for _, card := range cards {
		snap.Columns[0].AppendCard(card)
		snap.NextCardID = max(snap.NextCardID, card.ID+1)
	}
	return snap
}

// TempDataDir creates a temporary data directory for the file backend.
// Returns its Paths; the directory is removed when the test ends.
func TempDataDir(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(t.TempDir())
}

// WriteSnapshot stores snap under key in the file backend's layout.
func WriteSnapshot(t *testing.T, paths *config.Paths, key string, snap *model.Snapshot) {
	t.Helper()

	data, err := storage.Encode(snap)
	if err != nil {
		t.Fatalf("failed to encode snapshot: %v", err)
	}
	if err := os.MkdirAll(paths.DataDir(), 0755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	if err := os.WriteFile(paths.ValuePath(key), data, 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
}

// ReadSnapshot loads the snapshot stored under key, failing the test if
// there is none.
func ReadSnapshot(t *testing.T, paths *config.Paths, key string) *model.Snapshot {
	t.Helper()

	data, err := os.ReadFile(paths.ValuePath(key))
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	snap, err := storage.Decode(data)
	if err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	return snap
}
