// Package storage persists board snapshots to a key-value store.
//
// Every failure here is logged and swallowed: a board that cannot be read starts
// from defaults and a write that fails leaves the in-memory board as the source
// of truth until the next successful save.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	kberr "github.com/amterp/kanboard/internal/errors"
	"github.com/amterp/kanboard/internal/kv"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/version"
	"github.com/rs/zerolog"
)

const (
	// DefaultKey is the fixed key the board snapshot is stored under.
	DefaultKey = "board-state"
	// DefaultDebounce collapses bursts of edits into one write.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 5 * time.Second
)

// Adapter reads and writes the board snapshot at a fixed key.
type Adapter struct {
	store   kv.Store
	key     string
	logger  zerolog.Logger
	timeout time.Duration

	saveMu sync.Mutex // keeps writes ordered
}

// NewAdapter creates an adapter for key; an empty key means DefaultKey.
func NewAdapter(store kv.Store, key string, logger zerolog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{
		store:   store,
		key:     key,
		logger:  logger.With().Str("component", "storage").Str("key", key).Logger(),
		timeout: DefaultTimeout,
	}
}

// Key returns the key the snapshot is stored under.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the saved snapshot, or nil if there is none or it cannot be read.
func (a *Adapter) Load(ctx context.Context) *model.Snapshot {
	snap, err := a.load(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Error loading board state")
		return nil
	}
	return snap
}

func (a *Adapter) load(ctx context.Context) (*model.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, kberr.Storage("get", a.key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, kberr.Storage("decode", a.key, err)
	}
	if err := version.CheckSnapshot(a.key, snap.Version); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save encodes and writes the snapshot. It reports whether the write succeeded;
// failures are logged, never returned.
func (a *Adapter) Save(ctx context.Context, snap *model.Snapshot) bool {
	if err := a.save(ctx, snap); err != nil {
		a.logger.Error().Err(err).Msg("Error saving board state")
		return false
	}
	return true
}

func (a *Adapter) save(ctx context.Context, snap *model.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return kberr.Storage("encode", a.key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	if err := a.store.Set(ctx, a.key, data); err != nil {
		return kberr.Storage("set", a.key, err)
	}
	a.logger.Debug().Int("bytes", len(data)).Msg("Saved board state")
	return nil
}

// Encode serializes a snapshot, stamping the current schema version.
func Encode(snap *model.Snapshot) ([]byte, error) {
	out := *snap
	out.Version = version.CurrentSnapshotVersion
	if out.Columns == nil {
		out.Columns = []*model.Column{}
	}
	return json.Marshal(&out)
}

// Decode parses a snapshot and normalizes nil collections.
func Decode(data []byte) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	columns := make([]*model.Column, 0, len(snap.Columns))
	for _, col := range snap.Columns {
		if col == nil {
			continue
		}
		cards := make([]*model.Card, 0, len(col.Cards))
		for _, card := range col.Cards {
			if card != nil {
				cards = append(cards, card)
			}
		}
		col.Cards = cards
		if col.SortBy == "" {
			col.SortBy = model.SortAsc
		}
		columns = append(columns, col)
	}
	snap.Columns = columns
	return &snap, nil
}
