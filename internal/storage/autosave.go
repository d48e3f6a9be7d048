package storage

import (
	"context"
	"sync"
	"time"

	"github.com/amterp/kanboard/internal/model"
)

// AutoSaver debounces snapshot writes: each Notify (re)arms a timer and only
// the last one in a burst results in a write.
type AutoSaver struct {
	adapter  *Adapter
	getState func() *model.Snapshot
	delay    time.Duration

	// writeMu covers reading the state and saving it, so a later write
	// always carries a state at least as new as an earlier one.
	writeMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool
	gen     uint64 // identifies the timer allowed to fire
	saves   int
}

// SetupAutoSave returns an AutoSaver that saves getState() delay after the
// last Notify. A non-positive delay means DefaultDebounce.
func (a *Adapter) SetupAutoSave(getState func() *model.Snapshot, delay time.Duration) *AutoSaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &AutoSaver{
		adapter:  a,
		getState: getState,
		delay:    delay,
	}
}

// Notify schedules a save, superseding any pending one.
func (s *AutoSaver) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending = true
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *AutoSaver) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || !s.pending || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.mu.Unlock()

	s.write()
}

// Flush writes immediately if a save is pending. Reports whether a write happened.
func (s *AutoSaver) Flush() bool {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.pending = false
	s.mu.Unlock()

	return s.write()
}

// Stop cancels any pending save. Notify is ignored afterwards.
func (s *AutoSaver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Pending reports whether a save is scheduled.
func (s *AutoSaver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Saves returns the number of successful writes.
func (s *AutoSaver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *AutoSaver) write() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ok := s.adapter.Save(context.Background(), s.getState())
	if ok {
		s.mu.Lock()
		s.saves++
		s.mu.Unlock()
	}
	return ok
}
