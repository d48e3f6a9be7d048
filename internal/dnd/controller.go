// Package dnd moves cards between columns by drag and drop. It talks to the
// platform only through Transfer and ProxyFactory and to the board only
// through Gate, so it runs the same behind a browser, the HTTP API or a test.
package dnd

import (
	"strconv"
	"sync"
	"time"

	"github.com/amterp/kanboard/internal/id"
	"github.com/amterp/kanboard/internal/model"
	"github.com/rs/zerolog"
)

// Gate answers the edit-permission questions a drag needs.
type Gate interface {
	IsDisabledGlobal() bool
	ColumnEditingDisabled(columnID int) bool
}

// Item is the card being dragged and the column it started in.
type Item struct {
	CardID   int `json:"cardId"`
	ColumnID int `json:"columnId"`
}

// Controller tracks the drag in progress. Safe for concurrent use.
type Controller struct {
	gate    Gate
	proxies ProxyFactory
	logger  zerolog.Logger

	mu      sync.Mutex
	item    *Item
	session string
}

// NewController creates a controller. A nil proxies draws nothing.
func NewController(gate Gate, proxies ProxyFactory, logger zerolog.Logger) *Controller {
	if proxies == nil {
		proxies = NopProxies{}
	}
	return &Controller{
		gate:    gate,
		proxies: proxies,
		logger:  logger.With().Str("component", "dnd").Logger(),
	}
}

// BeginDrag starts dragging a card. It is vetoed while editing is disabled
// board-wide. On success the transfer carries the card and source column and
// the returned token names this drag.
func (c *Controller) BeginDrag(t Transfer, cardID, columnID int) (string, bool) {
	if c.gate.IsDisabledGlobal() {
		return "", false
	}

	session := id.DragSession()
	c.mu.Lock()
	c.item = &Item{CardID: cardID, ColumnID: columnID}
	c.session = session
	c.mu.Unlock()

	t.SetEffectAllowed(effectMove)
	t.SetData(FormatText, textMarker)
	t.SetData(FormatCardID, strconv.Itoa(cardID))
	t.SetData(FormatColumnID, strconv.Itoa(columnID))

	proxy, err := c.proxies.CreateProxy(cardID)
	if err != nil {
		c.logger.Warn().Err(err).Int("cardId", cardID).Msg("could not create drag proxy")
		return session, true
	}
	// the platform snapshots the proxy when the drag starts; it can go right after
	time.AfterFunc(0, proxy.Discard)

	return session, true
}

// EndDrag clears the drag in progress, whether or not it was dropped.
func (c *Controller) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.item = nil
	c.session = ""
}

// Over reports whether the column accepts a drop and marks the transfer as a
// move if so.
func (c *Controller) Over(t Transfer, columnID int) bool {
	if c.gate.IsDisabledGlobal() || c.gate.ColumnEditingDisabled(columnID) {
		return false
	}
	t.SetDropEffect(effectMove)
	return true
}

// Drop reads the dragged card from the transfer. Returns nil while editing is
// disabled board-wide or when the payload is not a pair of integers.
func (c *Controller) Drop(t Transfer) *model.DropInstruction {
	if c.gate.IsDisabledGlobal() {
		return nil
	}

	rawCard, rawColumn := t.GetData(FormatCardID), t.GetData(FormatColumnID)
	cardID, err := strconv.Atoi(rawCard)
	if err != nil {
		c.logger.Warn().Str("cardId", rawCard).Err(err).Msg("ignoring drop with malformed card id")
		return nil
	}
	columnID, err := strconv.Atoi(rawColumn)
	if err != nil {
		c.logger.Warn().Str("columnId", rawColumn).Err(err).Msg("ignoring drop with malformed column id")
		return nil
	}

	return &model.DropInstruction{CardID: cardID, FromColumnID: columnID}
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item != nil
}

// DraggedItem returns the card being dragged, or nil.
func (c *Controller) DraggedItem() *Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.item == nil {
		return nil
	}
	item := *c.item
	return &item
}

// Session returns the token of the drag in progress, or "".
func (c *Controller) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
