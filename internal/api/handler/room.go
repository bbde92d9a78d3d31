package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/casuskim/casus/internal/api/response"
	"github.com/casuskim/casus/internal/hub"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/services/history"
)

// maxHistoryLimit bounds the limit query parameter of the history endpoint
const maxHistoryLimit = 100

// RoomHandler serves read-only room views
type RoomHandler struct {
	hub     *hub.Hub
	history *history.Recorder
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(hub *hub.Hub, history *history.Recorder) *RoomHandler {
	return &RoomHandler{hub: hub, history: history}
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	summary, err := h.hub.Room(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(summary))
}

// History handles GET /api/v1/rooms/{code}/history?limit=N
func (h *RoomHandler) History(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	limit := history.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			WriteError(w, NewInvalidRequestError("limit must be between 1 and "+strconv.Itoa(maxHistoryLimit)))
			return
		}
		limit = n
	}

	summaries, err := h.history.List(r.Context(), code, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HistoryFromModel(code, summaries))
}
