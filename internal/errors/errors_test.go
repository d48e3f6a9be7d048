package errors

import (
	"errors"
	"io"
	"testing"
)

func TestTypedErrors_Is(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"card not found", CardNotFound(3), IsNotFound},
		{"column not found", ColumnNotFound("Done"), IsNotFound},
		{"invalid field", InvalidField("cardId", "not a number"), IsValidationError},
		{"storage", Storage("get", "board-state", io.ErrUnexpectedEOF), IsStorageError},
		{"locked", &LockedError{CardID: 1, ColumnID: 2}, IsLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("check failed for %v", tt.err)
			}
		})
	}
}

func TestStorageError_UnwrapsCause(t *testing.T) {
	err := Storage("set", "board-state", io.ErrShortWrite)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("expected cause to be reachable via errors.Is")
	}
	if IsNotFound(err) {
		t.Errorf("storage error should not be a not-found error")
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{CardNotFound(7), "card not found: 7"},
		{ColumnNotFound("Doing"), "column not found: Doing"},
		{InvalidField("title", "must not be empty"), "invalid title: must not be empty"},
		{&ValidationError{Message: "bad payload"}, "bad payload"},
		{&LockedError{CardID: 4, ColumnID: 1}, "card 4 in column 1 is being edited"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
