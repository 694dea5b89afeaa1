package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case ValidateJoinResult:
		o.printValidateJoinResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Guess response type (matches API)
type Guess struct {
	Number               string `json:"number"`
	CorrectCount         int    `json:"correctCount"`
	CorrectPositionCount int    `json:"correctPositionCount"`
	Timestamp            int64  `json:"timestamp"`
	PlayerID             string `json:"playerId"`
	PlayerName           string `json:"playerName"`
}

// Player response type
type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsCreator bool    `json:"isCreator"`
	HasWon    bool    `json:"hasWon"`
	Guesses   []Guess `json:"guesses"`
}

// Room response type
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

// RoomSummary response type for listings
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

// RoomList response type
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// ValidateJoinResult response type
type ValidateJoinResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	visibility := "private"
	if r.IsPublic {
		visibility = "public"
	}
	fmt.Printf("Room: %s (%s)\n", r.Name, r.ID)
	fmt.Printf("Visibility: %s\n", visibility)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Digits: %d\n", r.TargetDigits)
	fmt.Printf("Created: %s\n", time.UnixMilli(r.CreatedAt).Format(time.RFC3339))
	fmt.Printf("Players (%d/%d):\n", r.CurrentPlayers, r.MaxPlayers)
	for _, p := range r.Players {
		tags := ""
		if p.IsCreator {
			tags += " [creator]"
		}
		if p.HasWon {
			tags += " [winner]"
		}
		fmt.Printf("  - %s (%s) - %d guesses%s\n", p.Name, p.ID, len(p.Guesses), tags)
	}
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Println("No rooms")
		return
	}
	for _, r := range l.Rooms {
		fmt.Printf("%s  %s  %s  %d/%d players  %d digits\n",
			r.ID, r.Name, r.Status, r.CurrentPlayers, r.MaxPlayers, r.TargetDigits)
	}
}

func (o *Output) printValidateJoinResult(v ValidateJoinResult) {
	if v.OK {
		fmt.Println("OK to join")
		return
	}
	fmt.Printf("Cannot join: %s\n", v.Reason)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
