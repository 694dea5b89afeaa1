package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/guessroom/guessroom/internal/model"
)

// Registry tracks the set of live sessions per room. It is pure
// bookkeeping: no game state lives here. Broadcasting snapshots the
// session set before iterating, so sessions may register or unregister
// concurrently with a broadcast.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[model.RoomID]map[*Session]struct{}
	logger *slog.Logger

	// ordering holds one mutex per room, taken around a session's
	// mutate-then-broadcast sequence so observers see broadcasts in the
	// repository's mutation order
	ordering sync.Map
}

// NewRegistry creates a new session Registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[model.RoomID]map[*Session]struct{}),
		logger: logger.With(slog.String("component", "ws-registry")),
	}
}

// Register adds a session to a room's broadcast set
func (r *Registry) Register(roomID model.RoomID, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, ok := r.rooms[roomID]
	if !ok {
		sessions = make(map[*Session]struct{})
		r.rooms[roomID] = sessions
	}
	sessions[sess] = struct{}{}

	r.logger.Info("session registered",
		slog.String("room_id", string(roomID)),
		slog.Int("sessions", len(sessions)))
}

// Unregister removes a session from a room's broadcast set. Unknown
// sessions and rooms are ignored.
func (r *Registry) Unregister(roomID model.RoomID, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, ok := r.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := sessions[sess]; !ok {
		return
	}
	delete(sessions, sess)
	if len(sessions) == 0 {
		delete(r.rooms, roomID)
	}

	r.logger.Info("session unregistered",
		slog.String("room_id", string(roomID)),
		slog.Int("sessions", len(sessions)))
}

// DropRoom removes a room's entire broadcast set. Called when the room
// repository deletes the room, so no dangling targets remain.
func (r *Registry) DropRoom(roomID model.RoomID) {
	r.mu.Lock()
	delete(r.rooms, roomID)
	r.mu.Unlock()

	r.ordering.Delete(roomID)
}

// lockRoom serializes a session's mutate-then-broadcast sequence against
// other sessions of the same room. Without it a session could apply a
// later mutation and broadcast it before an earlier mutation's broadcast
// goes out. Returns the unlock func.
func (r *Registry) lockRoom(roomID model.RoomID) func() {
	mu, _ := r.ordering.LoadOrStore(roomID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// SessionCount returns the number of sessions registered for a room
func (r *Registry) SessionCount(roomID model.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Broadcast sends a message to every session registered for a room.
// Sessions whose send buffer is full have the message dropped; a closed
// or erroring session never panics the broadcaster.
func (r *Registry) Broadcast(roomID model.RoomID, msg any) {
	r.BroadcastExcept(roomID, msg, nil)
}

// BroadcastExcept sends a message to every session in a room except the
// given one. Pass nil to reach all sessions.
func (r *Registry) BroadcastExcept(roomID model.RoomID, msg any, except *Session) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("broadcast marshal failed",
			slog.String("room_id", string(roomID)),
			slog.Any("error", err))
		return
	}

	r.mu.RLock()
	targets := make([]*Session, 0, len(r.rooms[roomID]))
	for sess := range r.rooms[roomID] {
		if sess != except {
			targets = append(targets, sess)
		}
	}
	r.mu.RUnlock()

	for _, sess := range targets {
		sess.enqueue(data)
	}
}
