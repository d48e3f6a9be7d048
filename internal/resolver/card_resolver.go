package resolver

import (
	"fmt"
	"strconv"
	"strings"

	kberr "github.com/amterp/kanboard/internal/errors"
	"github.com/amterp/kanboard/internal/model"
	"github.com/amterp/kanboard/internal/util"
)

// CardResolver handles card ID and title resolution.
type CardResolver struct{}

// NewCardResolver creates a new card resolver.
func NewCardResolver() *CardResolver {
	return &CardResolver{}
}

// Resolve finds a card and the column holding it.
// Tries exact ID match first, then falls back to a unique title match.
func (r *CardResolver) Resolve(snap *model.Snapshot, ref string) (*model.Column, *model.Card, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil, kberr.InvalidField("card", "a card id or title is required")
	}

	if id, err := strconv.Atoi(ref); err == nil {
		for _, col := range snap.Columns {
			if card := col.FindCard(id); card != nil {
				return col, card, nil
			}
		}
		return nil, nil, kberr.CardNotFound(id)
	}

	var (
		foundCol  *model.Column
		foundCard *model.Card
		count     int
	)
	for _, col := range snap.Columns {
		for _, card := range col.Cards {
			if util.SameTitle(card.Title, ref) {
				foundCol, foundCard = col, card
				count++
			}
		}
	}

	switch count {
	case 0:
		return nil, nil, &kberr.NotFoundError{Resource: "card", ID: ref}
	case 1:
		return foundCol, foundCard, nil
	default:
		return nil, nil, kberr.InvalidField("card", fmt.Sprintf("%q matches %d cards; use the card id", ref, count))
	}
}
