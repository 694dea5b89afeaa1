package response

import (
	"github.com/guessroom/guessroom/internal/model"
)

// Guess represents a scored guess in API responses
type Guess struct {
	Number               string `json:"number"`
	CorrectCount         int    `json:"correctCount"`
	CorrectPositionCount int    `json:"correctPositionCount"`
	Timestamp            int64  `json:"timestamp"`
	PlayerID             string `json:"playerId"`
	PlayerName           string `json:"playerName"`
}

// GuessFromModel converts a model.Guess to a response Guess
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

// Player represents a room member in API responses
type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsCreator bool    `json:"isCreator"`
	HasWon    bool    `json:"hasWon"`
	Guesses   []Guess `json:"guesses"`
}

// PlayerFromModel converts a model.Player to a response Player
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

// Room represents a room in API responses. The target number and the
// password hash are never exposed.
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

// RoomFromModel converts a model.Room to a response Room
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

// RoomSummary is the compact room form used in listings
type RoomSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsPublic       bool   `json:"isPublic"`
	MaxPlayers     int    `json:"maxPlayers"`
	CurrentPlayers int    `json:"currentPlayers"`
	TargetDigits   int    `json:"targetDigits"`
	CreatorID      string `json:"creatorId"`
	CreatedAt      int64  `json:"createdAt"`
	Status         string `json:"status"`
}

// RoomSummaryFromModel converts a model.Room to its listing form
func RoomSummaryFromModel(r *model.Room) RoomSummary {
	return RoomSummary{
		ID:             string(r.ID),
		Name:           r.Name,
		IsPublic:       r.IsPublic,
		MaxPlayers:     r.MaxPlayers,
		CurrentPlayers: r.CurrentPlayers(),
		TargetDigits:   r.TargetDigits,
		CreatorID:      string(r.CreatorID),
		CreatedAt:      r.CreatedAt.UnixMilli(),
		Status:         string(r.Status),
	}
}

// RoomListResponse is the response for room listing endpoints
type RoomListResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RoomListFromModels converts a slice of rooms to a listing response
func RoomListFromModels(rooms []*model.Room) RoomListResponse {
	out := make([]RoomSummary, len(rooms))
	for i, r := range rooms {
		out[i] = RoomSummaryFromModel(r)
	}
	return RoomListResponse{Rooms: out}
}

// ValidateJoinResponse is the response for the join pre-check endpoint
type ValidateJoinResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
