package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guessroom/guessroom/internal/api/handler"
	"github.com/guessroom/guessroom/internal/api/middleware"
	"github.com/guessroom/guessroom/internal/model"
	"github.com/guessroom/guessroom/internal/services/room"
	"github.com/guessroom/guessroom/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	Registry       *ws.Registry
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{room_id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{room_id}/join", roomHandler.ValidateJoin).Methods(http.MethodPost)
	api.HandleFunc("/players/{user_id}/rooms", roomHandler.ListByCreator).Methods(http.MethodGet)

	// Realtime session endpoint
	api.HandleFunc("/rooms/{room_id}/ws", func(w http.ResponseWriter, r *http.Request) {
		roomID := model.RoomID(mux.Vars(r)["room_id"])
		ws.Serve(w, r, roomID, cfg.RoomController, cfg.Registry, cfg.Logger)
	}).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
