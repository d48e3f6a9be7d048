package version

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatSnapshotSchema(t *testing.T) {
	if got := FormatSnapshotSchema(3); got != "snapshot/3" {
		t.Errorf("FormatSnapshotSchema(3) = %q, want %q", got, "snapshot/3")
	}
}

func TestCheckSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		version   int
		expectErr bool
	}{
		{"missing stamp reads as v1", 0, false},
		{"current", CurrentSnapshotVersion, false},
		{"newer", CurrentSnapshotVersion + 1, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSnapshot("board-state", tt.version)
			if (err != nil) != tt.expectErr {
				t.Errorf("CheckSnapshot(%d) error = %v, expectErr %v", tt.version, err, tt.expectErr)
			}
		})
	}
}

func TestNewerSnapshot_Message(t *testing.T) {
	err := CheckSnapshot("board-state", CurrentSnapshotVersion+5)

	var schemaErr *SchemaVersionError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaVersionError, got %T", err)
	}
	if schemaErr.MinRequired != "a newer version" {
		t.Errorf("MinRequired = %q, want %q", schemaErr.MinRequired, "a newer version")
	}
	if !strings.Contains(err.Error(), "board-state") {
		t.Errorf("message should name the key: %s", err)
	}
}

func TestMinVersionCompleteness(t *testing.T) {
	for v := 1; v <= CurrentSnapshotVersion; v++ {
		if _, ok := MinVersion[v]; !ok {
			t.Errorf("MinVersion missing entry for snapshot version %d", v)
		}
	}
}
