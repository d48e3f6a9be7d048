package board

// Counter hands out monotonically increasing integer ids starting at 1.
// Ids are never reused, even after the item they named is deleted.
type Counter struct {
	next int
}

// NewCounter creates a counter whose first id is start (at least 1).
func NewCounter(start int) *Counter {
	c := &Counter{}
	c.Reset(start)
	return c
}

// Next returns the next id and advances the counter.
func (c *Counter) Next() int {
	id := c.next
	c.next++
	return id
}

// Peek returns the id Next would return.
func (c *Counter) Peek() int {
	return c.next
}

// Reset sets the next id. Values below 1 reset to 1.
func (c *Counter) Reset(next int) {
	if next < 1 {
		next = 1
	}
	c.next = next
}

// Flag is the board-wide "editing disabled" switch, shared by reference with
// every component that needs it.
type Flag struct {
	on bool
}

// On reports whether the flag is set.
func (f *Flag) On() bool {
	return f.on
}

// Set sets the flag.
func (f *Flag) Set(on bool) {
	f.on = on
}

// Toggle flips the flag and returns the new value.
func (f *Flag) Toggle() bool {
	f.on = !f.on
	return f.on
}
