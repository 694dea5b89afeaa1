package model

import "time"

// RoomID uniquely identifies a room for its lifetime
type RoomID string

// RoomStatus represents the game phase of a room
type RoomStatus string

const (
	RoomStatusNotStarted RoomStatus = "not_started" // No guess submitted yet
	RoomStatusPlaying    RoomStatus = "playing"     // At least one guess made
	RoomStatusFinished   RoomStatus = "finished"    // A player hit a full-position match
)

// Room membership bounds. These are policy limits, not protocol constraints.
const (
	MinPlayers = 2
	MaxPlayers = 10
)

// DefaultTargetDigits is the target length used when a creator doesn't pick one
const DefaultTargetDigits = 4

// Room is one guessing game: a hidden target and a bounded player roster.
// TargetNumber and PasswordHash are server-side only and must never be
// serialized to clients.
type Room struct {
	ID           RoomID
	Name         string
	IsPublic     bool
	PasswordHash string
	MaxPlayers   int
	TargetNumber string
	TargetDigits int
	CreatorID    PlayerID
	CreatedAt    time.Time
	Status       RoomStatus
	Players      []Player // join order, unique by ID
}

// Clone returns a deep copy of the room. Mutating the copy's players or
// guesses leaves the original untouched.
func (r *Room) Clone() *Room {
	clone := *r
	clone.Players = make([]Player, len(r.Players))
	for i := range r.Players {
		clone.Players[i] = r.Players[i]
		clone.Players[i].Guesses = append([]Guess(nil), r.Players[i].Guesses...)
	}
	return &clone
}

// GetPlayer returns the player with the given ID, or nil if not a member
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// CurrentPlayers returns the current membership count
func (r *Room) CurrentPlayers() int {
	return len(r.Players)
}

// IsFull reports whether the room has reached MaxPlayers
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}
