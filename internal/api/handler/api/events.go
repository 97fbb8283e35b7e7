// internal/api/handler/api/events.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/latticefin/lattice/internal/api/response"
	"github.com/latticefin/lattice/internal/core"
	"github.com/latticefin/lattice/internal/storage/record"
)

// EventsHandler handles regulatory event API requests.
type EventsHandler struct {
	app GraphApp
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(app GraphApp) *EventsHandler {
	return &EventsHandler{app: app}
}

// List handles GET /api/v1/events
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events := h.app.Graph().Events()
	rows := make([]record.EventRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, record.EventToRow(ev))
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"events": rows,
		"count":  len(rows),
	})
}

// Create handles POST /api/v1/events. The referenced asset must exist;
// related assets may be dangling and only produce edges for known ids.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var row record.EventRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidEvent, err))
		return
	}

	ev, err := record.RowToEvent(row)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	if _, ok := h.app.Graph().Asset(ev.AssetID); !ok {
		response.Error(w, http.StatusNotFound, core.ErrAssetNotFound)
		return
	}

	h.app.AddEvent(ev)
	response.JSON(w, http.StatusCreated, record.EventToRow(ev))
}
