package model

import "time"

// PlayerID is the caller identity, unique within a room
type PlayerID string

// Player represents one room member and their guess history
type Player struct {
	ID        PlayerID
	Name      string
	IsCreator bool
	Guesses   []Guess // submission order, append-only
	HasWon    bool    // sticky: set on the first full-position match, never cleared
}

// Guess is one submitted digit string plus its computed match scores.
// PlayerID and PlayerName are snapshots taken at submission time.
type Guess struct {
	Number               string
	CorrectCount         int
	CorrectPositionCount int
	Timestamp            time.Time
	PlayerID             PlayerID
	PlayerName           string
}
