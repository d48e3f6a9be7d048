// Package id issues short, time-ordered opaque tokens for drag sessions and
// WebSocket clients. Board entities use integer counters instead.
package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// Token prefixes.
const (
	PrefixDrag   = "drag"
	PrefixClient = "ws"
)

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(3)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new unique token.
func Generate() string {
	return generator.MustGenerate()
}

// DragSession returns a token identifying one drag gesture.
func DragSession() string {
	return PrefixDrag + "_" + Generate()
}

// Client returns a token identifying one WebSocket connection.
func Client() string {
	return PrefixClient + "_" + Generate()
}
