package version

import "fmt"

// Current schema version of the persisted board snapshot. Bump it when making
// breaking changes and add an entry to MinVersion.
const CurrentSnapshotVersion = 1

// MinVersion maps snapshot schema versions to the minimum kanboard release
// that can read them. Used to produce a helpful message for newer snapshots.
var MinVersion = map[int]string{
	1: "0.1.0",
}

// FormatSnapshotSchema renders a snapshot version for messages.
// Example: FormatSnapshotSchema(1) returns "snapshot/1"
func FormatSnapshotSchema(v int) string {
	return fmt.Sprintf("snapshot/%d", v)
}

// CheckSnapshot validates the _v stamp of a decoded snapshot.
// A missing stamp (0) is read as version 1, the unversioned browser format.
func CheckSnapshot(key string, v int) error {
	if v == 0 {
		v = 1
	}
	if v < 0 {
		return &SchemaVersionError{
			FileType: "snapshot",
			Key:      key,
			Found:    fmt.Sprintf("%d", v),
			Expected: fmt.Sprintf("%d", CurrentSnapshotVersion),
		}
	}
	if v > CurrentSnapshotVersion {
		return NewerSnapshot(key, v)
	}
	return nil
}
