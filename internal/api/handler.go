package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/amterp/kanboard/internal/board"
	"github.com/amterp/kanboard/internal/dnd"
	kberr "github.com/amterp/kanboard/internal/errors"
	"github.com/amterp/kanboard/internal/model"
	"github.com/rs/zerolog"
)

// BoardResponse is the JSON response for the whole board.
type BoardResponse struct {
	*model.Snapshot
	EditingLock *model.EditingLock `json:"editingLock"`
	TotalCards  int                `json:"totalCards"`
	Dragging    *dnd.Item          `json:"dragging"`
}

// Handler contains all HTTP handlers for the API.
//
// There is one board per server. All clients see and edit the same board and
// the Board serializes their requests.
type Handler struct {
	board  *board.Board
	drag   *dnd.Controller
	logger zerolog.Logger
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(b *board.Board, drag *dnd.Controller, logger zerolog.Logger) *Handler {
	return &Handler{
		board:  b,
		drag:   drag,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/board", h.GetBoard)

	// Column routes
	mux.HandleFunc("POST /api/v1/columns", h.CreateColumn)
	mux.HandleFunc("POST /api/v1/columns/shuffle", h.ShuffleColumns)
	mux.HandleFunc("DELETE /api/v1/columns/{id}", h.DeleteColumn)
	mux.HandleFunc("PATCH /api/v1/columns/{id}", h.UpdateColumn)
	mux.HandleFunc("POST /api/v1/columns/{id}/toggle-editing", h.ToggleColumnEditing)
	mux.HandleFunc("POST /api/v1/columns/{id}/toggle-sort", h.ToggleSort)
	mux.HandleFunc("POST /api/v1/columns/{id}/clear", h.ClearColumn)

	// Card routes
	mux.HandleFunc("POST /api/v1/columns/{id}/cards", h.CreateCard)
	mux.HandleFunc("PUT /api/v1/columns/{id}/cards/{cardId}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/v1/columns/{id}/cards/{cardId}", h.DeleteCard)
	mux.HandleFunc("POST /api/v1/columns/{id}/cards/{cardId}/edit", h.StartEditing)
	mux.HandleFunc("POST /api/v1/cards/shuffle", h.ShuffleCards)

	// Board-wide routes
	mux.HandleFunc("POST /api/v1/editing/cancel", h.CancelEditing)
	mux.HandleFunc("POST /api/v1/disable", h.ToggleDisable)

	// Drag and drop routes
	mux.HandleFunc("POST /api/v1/drag/start", h.DragStart)
	mux.HandleFunc("POST /api/v1/drag/over", h.DragOver)
	mux.HandleFunc("POST /api/v1/drag/drop", h.DragDrop)
	mux.HandleFunc("POST /api/v1/drag/end", h.DragEnd)
}

func (h *Handler) boardResponse() BoardResponse {
	snap := h.board.Snapshot()
	return BoardResponse{
		Snapshot:    snap,
		EditingLock: h.board.EditingLock(),
		TotalCards:  snap.TotalCards(),
		Dragging:    h.drag.DraggedItem(),
	}
}

// pathInt reads an integer path parameter.
func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, kberr.InvalidField(name, strconv.Quote(raw)+" is not a number")
	}
	return n, nil
}

// decodeOptional decodes a JSON body into target. An empty body leaves target untouched.
func decodeOptional(r *http.Request, target any) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if err == io.EOF {
		return nil
	}
	return err
}

// GetBoard returns the board, the editing lock and the drag in progress.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.boardResponse())
}

// --- Column Handlers ---

// ColumnTitleRequest is the JSON body for naming a column.
type ColumnTitleRequest struct {
	Title *string `json:"title,omitempty"`
}

// CreateColumn appends a column. A title in the body names it right away;
// otherwise it stays new and untitled.
func (h *Handler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	var req ColumnTitleRequest
	if err := decodeOptional(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	col := h.board.AddColumn()
	if req.Title != nil {
		h.board.UpdateColumnTitle(*req.Title, col.ID)
		col = h.board.Column(col.ID)
	}
	JSON(w, http.StatusCreated, col)
}

// DeleteColumn removes a column and its cards.
func (h *Handler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathInt(r, "id")
	if err != nil {
		Error(w, err)
		return
	}

	if !h.board.DeleteColumn(columnID) {
		Error(w, kberr.ColumnNotFound(strconv.Itoa(columnID)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateColumn renames a column.
func (h *Handler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathInt(r, "id")
	if err != nil {
		Error(w, err)
		return
	}

	var req ColumnTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.Title == nil {
		BadRequest(w, "title is required")
		return
	}

	if !h.board.UpdateColumnTitle(*req.Title, columnID) {
		Error(w, kberr.ColumnNotFound(strconv.Itoa(columnID)))
		return
	}
	JSON(w, http.StatusOK, h.board.Column(columnID))
}

// ShuffleColumns randomizes the column order.
func (h *Handler) ShuffleColumns(w http.ResponseWriter, r *http.Request) {
	h.board.ShuffleColumns()
	JSON(w, http.StatusOK, h.boardResponse())
}

// ToggleColumnEditing flips a column's edit lock.
func (h *Handler) ToggleColumnEditing(w http.ResponseWriter, r *http.Request) {
	h.columnAction(w, r, h.board.ToggleColumnEditing)
}

// ToggleSort flips a column's sort direction.
func (h *Handler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	h.columnAction(w, r, h.board.ToggleSortBy)
}

// ClearColumn removes every card from a column.
func (h *Handler) ClearColumn(w http.ResponseWriter, r *http.Request) {
	h.columnAction(w, r, h.board.ClearCards)
}

// columnAction runs a single-column operation and responds with the column.
func (h *Handler) columnAction(w http.ResponseWriter, r *http.Request, apply func(columnID int) bool) {
	columnID, err := pathInt(r, "id")
	if err != nil {
		Error(w, err)
		return
	}

	if !apply(columnID) {
		Error(w, kberr.ColumnNotFound(strconv.Itoa(columnID)))
		return
	}
	JSON(w, http.StatusOK, h.board.Column(columnID))
}

// --- Card Handlers ---

// CardRequest is the JSON body for saving a card.
type CardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCardResponse is the JSON response for creating a card.
type CreateCardResponse struct {
	Card        *model.Card        `json:"card"`
	EditingLock *model.EditingLock `json:"editingLock"`
}

// CreateCard adds an empty card and opens it for editing.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathInt(r, "id")
	if err != nil {
		Error(w, err)
		return
	}

	card := h.board.AddCard(columnID)
	if card == nil {
		if lock := h.board.EditingLock(); lock != nil {
			Error(w, &kberr.LockedError{CardID: lock.CardID, ColumnID: lock.ColumnID})
			return
		}
		Error(w, kberr.ColumnNotFound(strconv.Itoa(columnID)))
		return
	}

	JSON(w, http.StatusCreated, CreateCardResponse{
		Card:        card,
		EditingLock: h.board.EditingLock(),
	})
}

// UpdateCard saves a card's title and description and closes its edit.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	columnID, cardID, ok := h.cardPath(w, r)
	if !ok {
		return
	}

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	data := model.CardData{ID: cardID, Title: req.Title, Description: req.Description}
	if !h.board.UpdateCard(columnID, data) {
		Error(w, kberr.CardNotFound(cardID))
		return
	}
	var card *model.Card
	if col := h.board.Column(columnID); col != nil {
		card = col.FindCard(cardID)
	}
	JSON(w, http.StatusOK, card)
}

// DeleteCard removes a card.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	columnID, cardID, ok := h.cardPath(w, r)
	if !ok {
		return
	}

	if !h.board.DeleteCard(columnID, cardID) {
		Error(w, kberr.CardNotFound(cardID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartEditing opens an existing card for editing.
func (h *Handler) StartEditing(w http.ResponseWriter, r *http.Request) {
	columnID, cardID, ok := h.cardPath(w, r)
	if !ok {
		return
	}

	if !h.board.StartEditing(columnID, cardID) {
		if lock := h.board.EditingLock(); lock != nil {
			Error(w, &kberr.LockedError{CardID: lock.CardID, ColumnID: lock.ColumnID})
			return
		}
		Error(w, kberr.CardNotFound(cardID))
		return
	}
	JSON(w, http.StatusOK, map[string]any{"editingLock": h.board.EditingLock()})
}

func (h *Handler) cardPath(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	columnID, err := pathInt(r, "id")
	if err != nil {
		Error(w, err)
		return 0, 0, false
	}
	cardID, err := pathInt(r, "cardId")
	if err != nil {
		Error(w, err)
		return 0, 0, false
	}
	return columnID, cardID, true
}

// ShuffleCards redistributes every card across random columns.
func (h *Handler) ShuffleCards(w http.ResponseWriter, r *http.Request) {
	h.board.ShuffleCards()
	JSON(w, http.StatusOK, h.boardResponse())
}

// --- Board-wide Handlers ---

// CancelEditing closes the open edit, discarding a card that was never saved.
func (h *Handler) CancelEditing(w http.ResponseWriter, r *http.Request) {
	cancelled := h.board.CancelCurrentEditing()
	JSON(w, http.StatusOK, map[string]any{"cancelled": cancelled})
}

// ToggleDisable flips the board-wide edit switch.
func (h *Handler) ToggleDisable(w http.ResponseWriter, r *http.Request) {
	on := h.board.ToggleDisableGlobal()
	JSON(w, http.StatusOK, map[string]bool{"isDisabledGlobal": on})
}

// --- Drag Handlers ---

// DragStartRequest is the JSON body for starting a drag.
type DragStartRequest struct {
	CardID   int `json:"cardId"`
	ColumnID int `json:"columnId"`
}

// DragStartResponse carries the drag token and the payload the client must
// send back on drop.
type DragStartResponse struct {
	Session  string           `json:"session"`
	Transfer *dnd.MapTransfer `json:"transfer"`
}

// DragRequest is the JSON body for dragging over or dropping on a column.
type DragRequest struct {
	ColumnID int               `json:"columnId"`
	Data     map[string]string `json:"data"`
}

// DragStart begins dragging a card.
func (h *Handler) DragStart(w http.ResponseWriter, r *http.Request) {
	var req DragStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	transfer := dnd.NewMapTransfer(nil)
	session, ok := h.drag.BeginDrag(transfer, req.CardID, req.ColumnID)
	if !ok {
		Forbidden(w, "editing is disabled")
		return
	}
	JSON(w, http.StatusOK, DragStartResponse{Session: session, Transfer: transfer})
}

// DragOver reports whether a column accepts the drop.
func (h *Handler) DragOver(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	transfer := dnd.NewMapTransfer(req.Data)
	accepted := h.drag.Over(transfer, req.ColumnID)
	JSON(w, http.StatusOK, map[string]any{
		"accepted":   accepted,
		"dropEffect": transfer.DropEffect,
	})
}

// DragDrop drops the dragged card on a column.
func (h *Handler) DragDrop(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	// Clients may drop without asking first, so the target is checked here too
	transfer := dnd.NewMapTransfer(req.Data)
	if !h.drag.Over(transfer, req.ColumnID) {
		Forbidden(w, "column does not accept drops")
		return
	}
	instruction := h.drag.Drop(transfer)
	if instruction == nil {
		Error(w, kberr.InvalidField("data", "cardId and columnId must be integers"))
		return
	}

	moved := h.board.HandleCardDrop(instruction.To(req.ColumnID))
	JSON(w, http.StatusOK, map[string]any{
		"moved": moved,
		"board": h.boardResponse(),
	})
}

// DragEnd clears the drag in progress.
func (h *Handler) DragEnd(w http.ResponseWriter, r *http.Request) {
	h.drag.EndDrag()
	w.WriteHeader(http.StatusNoContent)
}
