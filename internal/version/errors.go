package version

import "fmt"

// SchemaVersionError indicates a schema version problem while reading persisted state.
type SchemaVersionError struct {
	FileType    string // "snapshot"
	Key         string // Storage key of the problematic value
	Found       string // What was found (e.g., "2")
	Expected    string // What was expected (e.g., "1")
	MinRequired string // Minimum kanboard version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires kanboard >= %s (key: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.Key, e.Expected,
		)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (key: %s)",
		e.FileType, e.Found, e.Expected, e.Key,
	)
}

// NewerSnapshot creates an error for a snapshot written by a newer release.
func NewerSnapshot(key string, found int) error {
	e := &SchemaVersionError{
		FileType: "snapshot",
		Key:      key,
		Found:    fmt.Sprintf("%d", found),
		Expected: fmt.Sprintf("%d", CurrentSnapshotVersion),
	}
	if minVersion, ok := MinVersion[found]; ok {
		e.MinRequired = minVersion
	} else {
		e.MinRequired = "a newer version"
	}
	return e
}
