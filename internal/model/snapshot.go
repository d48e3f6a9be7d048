package model

// Snapshot is the persisted form of a board.
// Schema changes require a version bump, see internal/version/version.go.
type Snapshot struct {
	Version          int       `json:"_v,omitempty" yaml:"_v,omitempty" toml:"_v,omitempty"`
	Columns          []*Column `json:"columns" yaml:"columns" toml:"columns"`
	NextColumnID     int       `json:"nextColumnId" yaml:"nextColumnId" toml:"nextColumnId"`
	NextCardID       int       `json:"nextCardId" yaml:"nextCardId" toml:"nextCardId"`
	IsDisabledGlobal bool      `json:"isDisabledGlobal" yaml:"isDisabledGlobal" toml:"isDisabledGlobal"`
}

// TotalCards returns the number of cards across all columns.
func (s *Snapshot) TotalCards() int {
	total := 0
	for _, col := range s.Columns {
		total += len(col.Cards)
	}
	return total
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Columns = CloneColumns(s.Columns)
	return &out
}

// CloneColumns deep-copies a column sequence.
func CloneColumns(cols []*Column) []*Column {
	out := make([]*Column, len(cols))
	for i, col := range cols {
		out[i] = col.Clone()
	}
	return out
}
