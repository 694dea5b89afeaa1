package ws

import (
	"github.com/guessroom/guessroom/internal/model"
)

// Inbound message types
const (
	TypeJoin  = "join"
	TypeGuess = "guess"
	TypeLeave = "leave"
)

// Outbound message types
const (
	TypeRoomState    = "room-state"
	TypePlayerJoined = "player-joined"
	TypePlayerLeft   = "player-left"
	TypeGuessResult  = "guess-result"
	TypeGameWon      = "game-won"
	TypeError        = "error"
)

// Inbound is the envelope for all client-to-server messages. The relevant
// fields depend on Type; unknown types are logged and ignored.
type Inbound struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName,omitempty"`
	Password   string `json:"password,omitempty"`
	Number     string `json:"number,omitempty"`
}

// Guess is the wire representation of a scored guess
type Guess struct {
	Number               string `json:"number"`
	CorrectCount         int    `json:"correctCount"`
	CorrectPositionCount int    `json:"correctPositionCount"`
	Timestamp            int64  `json:"timestamp"`
	PlayerID             string `json:"playerId"`
	PlayerName           string `json:"playerName"`
}

// GuessFromModel converts a model.Guess to its wire form
func GuessFromModel(g *model.Guess) Guess {
	return Guess{
		Number:               g.Number,
		CorrectCount:         g.CorrectCount,
		CorrectPositionCount: g.CorrectPositionCount,
		Timestamp:            g.Timestamp.UnixMilli(),
		PlayerID:             string(g.PlayerID),
		PlayerName:           g.PlayerName,
	}
}

// Player is the wire representation of a room member
type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsCreator bool    `json:"isCreator"`
	HasWon    bool    `json:"hasWon"`
	Guesses   []Guess `json:"guesses"`
}

// PlayerFromModel converts a model.Player to its wire form
func PlayerFromModel(p *model.Player) Player {
	guesses := make([]Guess, len(p.Guesses))
	for i := range p.Guesses {
		guesses[i] = GuessFromModel(&p.Guesses[i])
	}
	return Player{
		ID:        string(p.ID),
		Name:      p.Name,
		IsCreator: p.IsCreator,
		HasWon:    p.HasWon,
		Guesses:   guesses,
	}
}

// Room is the wire representation of a room snapshot. The hidden target
// and the password hash deliberately have no field here.
type Room struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	IsPublic       bool     `json:"isPublic"`
	MaxPlayers     int      `json:"maxPlayers"`
	CurrentPlayers int      `json:"currentPlayers"`
	TargetDigits   int      `json:"targetDigits"`
	CreatorID      string   `json:"creatorId"`
	CreatedAt      int64    `json:"createdAt"`
	Status         string   `json:"status"`
	Players        []Player `json:"players"`
}

// RoomFromModel converts a model.Room to its wire form
func RoomFromModel(r *model.Room) Room {
	players := make([]Player, len(r.Players))
	for i := range r.Players {
		players[i] = PlayerFromModel(&r.Players[i])
	}
	return Room{
		ID:             string(r.ID),
		Name:           r.Name,
		IsPublic:       r.IsPublic,
		MaxPlayers:     r.MaxPlayers,
		CurrentPlayers: r.CurrentPlayers(),
		TargetDigits:   r.TargetDigits,
		CreatorID:      string(r.CreatorID),
		CreatedAt:      r.CreatedAt.UnixMilli(),
		Status:         string(r.Status),
		Players:        players,
	}
}

// RoomStateMessage carries a full room snapshot to a freshly-joined session
type RoomStateMessage struct {
	Type string `json:"type"`
	Room Room   `json:"room"`
}

// PlayerJoinedMessage announces a new member to the rest of the room
type PlayerJoinedMessage struct {
	Type           string `json:"type"`
	Player         Player `json:"player"`
	CurrentPlayers int    `json:"currentPlayers"`
}

// PlayerLeftMessage announces a departure to the remaining sessions
type PlayerLeftMessage struct {
	Type           string `json:"type"`
	PlayerID       string `json:"playerId"`
	CurrentPlayers int    `json:"currentPlayers"`
}

// GuessResultMessage carries an accepted guess and the room's new status
type GuessResultMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Guess    Guess  `json:"guess"`
	Status   string `json:"status"`
}

// GameWonMessage is broadcast once, when a guess completes a
// full-position match
type GameWonMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// ErrorMessage is sent only to the session whose operation failed
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
