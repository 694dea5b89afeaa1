package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/guessroom/guessroom/internal/model"
	"github.com/guessroom/guessroom/internal/services/room"
)

// sendBufferSize bounds the per-session outbound queue
const sendBufferSize = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Session terminates one realtime connection. A session is bound to a
// single room by its URL and moves through Connecting -> Joined ->
// Closed; an open socket does not imply room membership, only an
// explicit join does. A connection closing without a leave message keeps
// the player in the room, so transient disconnects don't forfeit
// progress.
type Session struct {
	conn     *websocket.Conn
	roomID   model.RoomID
	playerID model.PlayerID
	joined   bool

	rooms    *room.Controller
	registry *Registry
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// Serve upgrades an HTTP request to a websocket session bound to the
// given room and runs its read loop until the connection closes. The
// room must already exist.
func Serve(w http.ResponseWriter, r *http.Request, roomID model.RoomID, rooms *room.Controller, registry *Registry, logger *slog.Logger) {
	if _, err := rooms.GetRoom(r.Context(), roomID); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed",
			slog.String("room_id", string(roomID)),
			slog.Any("error", err))
		return
	}

	sess := &Session{
		conn:     conn,
		roomID:   roomID,
		rooms:    rooms,
		registry: registry,
		logger: logger.With(
			slog.String("component", "ws-session"),
			slog.String("room_id", string(roomID))),
		send: make(chan []byte, sendBufferSize),
	}

	go sess.writePump()
	sess.readPump()
}

// enqueue queues a marshaled message for delivery. Messages to a full or
// closed session are dropped rather than blocking the caller.
func (s *Session) enqueue(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("message dropped, session buffer full",
			slog.String("player_id", string(s.playerID)))
	}
}

// closeSend marks the session closed and closes the outbound queue.
// Safe to call more than once; enqueue becomes a no-op afterwards.
func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

func (s *Session) sendMessage(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal failed", slog.Any("error", err))
		return
	}
	s.enqueue(data)
}

func (s *Session) sendError(message string) {
	s.sendMessage(ErrorMessage{Type: TypeError, Message: message})
}

// readPump consumes inbound messages until the connection closes. A
// malformed message or unknown type affects only that message; an I/O
// error closes only this session.
func (s *Session) readPump() {
	defer func() {
		s.registry.Unregister(s.roomID, s)
		s.closeSend()
		_ = s.conn.Close()
	}()

	ctx := context.Background()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("malformed message ignored", slog.Any("error", err))
			continue
		}

		switch msg.Type {
		case TypeJoin:
			s.handleJoin(ctx, msg)
		case TypeGuess:
			s.handleGuess(ctx, msg)
		case TypeLeave:
			s.handleLeave(ctx, msg)
			return
		default:
			s.logger.Warn("unknown message type ignored", slog.String("type", msg.Type))
		}
	}
}

// writePump drains the outbound queue onto the socket
func (s *Session) writePump() {
	defer func() {
		_ = s.conn.Close()
	}()

	for data := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *Session) handleJoin(ctx context.Context, msg Inbound) {
	unlock := s.registry.lockRoom(s.roomID)
	defer unlock()

	playerID := model.PlayerID(msg.PlayerID)

	joinedRoom, err := s.rooms.JoinRoom(ctx, s.roomID, playerID, msg.PlayerName, msg.Password)
	if err != nil {
		s.sendError(errorText(err))
		return
	}

	s.playerID = playerID
	if !s.joined {
		s.joined = true
		s.registry.Register(s.roomID, s)
	}

	s.sendMessage(RoomStateMessage{
		Type: TypeRoomState,
		Room: RoomFromModel(joinedRoom),
	})

	if player := joinedRoom.GetPlayer(playerID); player != nil {
		s.registry.BroadcastExcept(s.roomID, PlayerJoinedMessage{
			Type:           TypePlayerJoined,
			Player:         PlayerFromModel(player),
			CurrentPlayers: joinedRoom.CurrentPlayers(),
		}, s)
	}
}

func (s *Session) handleGuess(ctx context.Context, msg Inbound) {
	if !s.joined {
		s.sendError("Join the room before guessing")
		return
	}

	unlock := s.registry.lockRoom(s.roomID)
	defer unlock()

	guess, updated, err := s.rooms.SubmitGuess(ctx, s.roomID, model.PlayerID(msg.PlayerID), msg.Number)
	if err != nil {
		s.sendError(errorText(err))
		return
	}

	s.registry.Broadcast(s.roomID, GuessResultMessage{
		Type:     TypeGuessResult,
		PlayerID: string(guess.PlayerID),
		Guess:    GuessFromModel(guess),
		Status:   string(updated.Status),
	})

	if guess.CorrectPositionCount == updated.TargetDigits {
		s.registry.Broadcast(s.roomID, GameWonMessage{
			Type:       TypeGameWon,
			PlayerID:   string(guess.PlayerID),
			PlayerName: guess.PlayerName,
		})
	}
}

func (s *Session) handleLeave(ctx context.Context, msg Inbound) {
	if !s.joined {
		return
	}

	unlock := s.registry.lockRoom(s.roomID)
	defer unlock()

	remaining, err := s.rooms.LeaveRoom(ctx, s.roomID, model.PlayerID(msg.PlayerID))
	if err != nil {
		s.sendError(errorText(err))
		return
	}

	s.registry.Unregister(s.roomID, s)

	if remaining != nil {
		s.registry.Broadcast(s.roomID, PlayerLeftMessage{
			Type:           TypePlayerLeft,
			PlayerID:       msg.PlayerID,
			CurrentPlayers: remaining.CurrentPlayers(),
		})
	}
}

// errorText maps repository errors to user-facing protocol error text
func errorText(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, model.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, model.ErrWrongPassword):
		return "Incorrect password"
	case errors.Is(err, model.ErrPlayerNotInRoom):
		return "You are not in this room"
	case errors.Is(err, model.ErrInvalidGuessFormat):
		return "Guess must be digits of the target length"
	default:
		return "Operation failed"
	}
}
