package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guessroom/guessroom/internal/api/apierr"
	"github.com/guessroom/guessroom/internal/api/request"
	"github.com/guessroom/guessroom/internal/api/response"
	"github.com/guessroom/guessroom/internal/model"
	"github.com/guessroom/guessroom/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}
	if req.CreatorID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("creatorId is required"))
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), room.CreateRoomParams{
		Name:         req.Name,
		IsPublic:     req.IsPublic,
		Password:     req.Password,
		MaxPlayers:   req.MaxPlayers,
		CreatorID:    model.PlayerID(req.CreatorID),
		CreatorName:  req.CreatorName,
		TargetNumber: req.TargetNumber,
		TargetDigits: req.TargetDigits,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListPublicRooms(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomListFromModels(rooms))
}

// Get handles GET /api/v1/rooms/{room_id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["room_id"])

	got, err := h.rooms.GetRoom(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(got))
}

// ValidateJoin handles POST /api/v1/rooms/{room_id}/join. It is a
// pre-check only; actual membership changes happen over the websocket.
func (h *RoomHandler) ValidateJoin(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["room_id"])

	var req request.ValidateJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow an empty body for public rooms
		req = request.ValidateJoinRequest{}
	}

	ok, reason := h.rooms.ValidateJoin(r.Context(), id, req.Password)
	response.JSON(w, http.StatusOK, response.ValidateJoinResponse{OK: ok, Reason: reason})
}

// ListByCreator handles GET /api/v1/players/{user_id}/rooms
func (h *RoomHandler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	userID := model.PlayerID(mux.Vars(r)["user_id"])

	rooms, err := h.rooms.ListRoomsByCreator(r.Context(), userID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomListFromModels(rooms))
}
