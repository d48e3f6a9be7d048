package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
	ErrLocked       = errors.New("editing in progress")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "card", "column"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// StorageError wraps a failure of the key-value backend.
type StorageError struct {
	Op  string // "get", "set", "decode", ...
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// LockedError indicates another card already holds the editing lock.
type LockedError struct {
	CardID   int
	ColumnID int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("card %d in column %d is being edited", e.CardID, e.ColumnID)
}

func (e *LockedError) Unwrap() error {
	return ErrLocked
}

// Helper constructors for common cases

func CardNotFound(id int) error {
	return &NotFoundError{Resource: "card", ID: fmt.Sprintf("%d", id)}
}

func ColumnNotFound(ref string) error {
	return &NotFoundError{Resource: "column", ID: ref}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Storage(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Err: err}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStorageError checks if an error came from the storage backend.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsLocked checks if an error is an editing-lock conflict.
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}
