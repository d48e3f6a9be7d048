package board

import "github.com/amterp/kanboard/internal/model"

// Editor tracks the single card open for editing. It is Idle when no lock is
// held and Editing otherwise; entry points refuse to open a second edit.
type Editor struct {
	lock *model.EditingLock
}

// NewEditor creates an idle editor.
func NewEditor() *Editor {
	return &Editor{}
}

// Current returns a copy of the lock, or nil when idle.
func (e *Editor) Current() *model.EditingLock {
	if e.lock == nil {
		return nil
	}
	l := *e.lock
	return &l
}

// Locked reports whether a card is being edited.
func (e *Editor) Locked() bool {
	return e.lock != nil
}

// Acquire opens an edit on the card. Returns false if another edit is open.
func (e *Editor) Acquire(columnID, cardID int, isNew bool) bool {
	if e.lock != nil {
		return false
	}
	e.lock = &model.EditingLock{CardID: cardID, ColumnID: columnID, IsNew: isNew}
	return true
}

// ReleaseIf closes the edit if it points at exactly this card.
func (e *Editor) ReleaseIf(columnID, cardID int) bool {
	if !e.lock.Matches(columnID, cardID) {
		return false
	}
	e.lock = nil
	return true
}

// ReleaseColumn closes the edit if the locked card lives in the column.
func (e *Editor) ReleaseColumn(columnID int) bool {
	if e.lock == nil || e.lock.ColumnID != columnID {
		return false
	}
	e.lock = nil
	return true
}

// Follow updates the lock when the locked card moves to another column.
func (e *Editor) Follow(cardID, fromColumnID, toColumnID int) {
	if e.lock.Matches(fromColumnID, cardID) {
		e.lock.ColumnID = toColumnID
	}
}

// Cancel closes the current edit. A card that was created for this edit and
// never saved is passed to discard so it does not persist.
func (e *Editor) Cancel(discard func(columnID, cardID int)) *model.EditingLock {
	lock := e.lock
	if lock == nil {
		return nil
	}
	e.lock = nil
	if lock.IsNew && discard != nil {
		discard(lock.ColumnID, lock.CardID)
	}
	return lock
}
