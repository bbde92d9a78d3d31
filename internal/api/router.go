package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/casuskim/casus/internal/api/apierr"
	"github.com/casuskim/casus/internal/api/handler"
	"github.com/casuskim/casus/internal/dependencies/identity"
	"github.com/casuskim/casus/internal/hub"
	"github.com/casuskim/casus/internal/middleware"
	"github.com/casuskim/casus/internal/realtime"
	"github.com/casuskim/casus/internal/services/history"
	"github.com/casuskim/casus/internal/services/words"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Hub        *hub.Hub
	Words      *words.Service
	History    *history.Recorder
	ChannelIDs identity.Generator
	WebSocket  realtime.WSConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statusHandler := handler.NewStatusHandler(cfg.Hub, cfg.Words)
	roomHandler := handler.NewRoomHandler(cfg.Hub, cfg.History)
	wsHandler := handler.NewWSHandler(cfg.Hub, cfg.ChannelIDs, cfg.WebSocket, cfg.Logger)

	r.Use(middleware.Recovery(cfg.Logger, apiPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	// Game connection
	r.HandleFunc("/ws", wsHandler.Serve).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/categories", statusHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code:[0-9]{6}}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code:[0-9]{6}}/history", roomHandler.History).Methods(http.MethodGet)

	return r
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
