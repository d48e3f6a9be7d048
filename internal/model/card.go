package model

import (
	"sort"
	"strings"
)

// Card represents a kanban card. IDs are allocated from one board-wide counter.
type Card struct {
	ID          int    `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
	IsNew       bool   `json:"isNew" yaml:"isNew" toml:"isNew"`
}

// CardData carries the editable fields of a card from an edit form.
type CardData struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Clone returns a copy of the card.
func (c *Card) Clone() *Card {
	out := *c
	return &out
}

// SortCards returns a new slice ordered by title according to dir.
// Ties keep their stored order. The input slice is not modified.
func SortCards(cards []*Card, dir SortBy) []*Card {
	out := make([]*Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if dir == SortDesc {
			return a > b
		}
		return a < b
	})
	return out
}
