package handler

import (
	"net/http"

	"github.com/casuskim/casus/internal/api/response"
	"github.com/casuskim/casus/internal/hub"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/services/words"
)

// StatusHandler serves server health and the word categories
type StatusHandler struct {
	hub   *hub.Hub
	words *words.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(hub *hub.Hub, words *words.Service) *StatusHandler {
	return &StatusHandler{hub: hub, words: words}
}

// Health handles GET /api/v1/health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.hub.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Rooms: stats.Rooms, Players: stats.Players})
}

// Categories handles GET /api/v1/categories
func (h *StatusHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.words.Categories()
	if len(categories) == 0 {
		WriteError(w, model.ErrNoCategories)
		return
	}
	response.JSON(w, http.StatusOK, response.CategoriesFromService(h.words.DefaultCategory(), categories))
}
