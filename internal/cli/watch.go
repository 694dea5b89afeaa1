package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		playerID   string
		playerName string
		password   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "watch <room-id>",
		Short: "Stream realtime events from a room",
		Long: `Connect to the room's websocket endpoint and stream events as they
happen. With --player-id set, the connection joins the room first, so
the full event stream for a member is shown.

Events include:
  - room-state: Full room snapshot after joining
  - player-joined: A player entered the room
  - player-left: A player left the room
  - guess-result: A guess was scored
  - game-won: A player guessed the number
  - error: The server rejected an action

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRoom(args[0], playerID, playerName, password, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&playerID, "player-id", "", "Join the room as this player before watching")
	cmd.Flags().StringVar(&playerName, "player-name", "", "Display name used when joining")
	cmd.Flags().StringVar(&password, "password", "", "Join password for private rooms")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

func watchRoom(roomID, playerID, playerName, password string, jsonOutput bool) error {
	wsURL := strings.TrimSuffix(cfg.ServerURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL += "/api/v1/rooms/" + roomID + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if playerID != "" {
		join := map[string]string{
			"type":       "join",
			"playerId":   playerID,
			"playerName": playerName,
		}
		if password != "" {
			join["password"] = password
		}
		if err := conn.WriteJSON(join); err != nil {
			return fmt.Errorf("failed to join: %w", err)
		}
	}

	// Close the connection on Ctrl+C so the read loop unblocks
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if playerID != "" {
			_ = conn.WriteJSON(map[string]string{"type": "leave", "playerId": playerID})
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Watching room %s (Ctrl+C to stop)\n", roomID)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return nil
		}

		if jsonOutput {
			fmt.Println(string(data))
			continue
		}

		printEvent(data)
	}
}

func printEvent(data []byte) {
	var event map[string]any
	if err := json.Unmarshal(data, &event); err != nil {
		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), string(data))
		return
	}

	eventType, _ := event["type"].(string)
	ts := time.Now().Format("15:04:05")

	switch eventType {
	case "room-state":
		fmt.Printf("[%s] joined room\n", ts)
	case "player-joined":
		player, _ := event["player"].(map[string]any)
		fmt.Printf("[%s] %v joined (%v players)\n", ts, player["name"], event["currentPlayers"])
	case "player-left":
		fmt.Printf("[%s] %v left (%v players)\n", ts, event["playerId"], event["currentPlayers"])
	case "guess-result":
		guess, _ := event["guess"].(map[string]any)
		fmt.Printf("[%s] %v guessed %v: %v correct, %v in position\n",
			ts, guess["playerName"], guess["number"],
			guess["correctCount"], guess["correctPositionCount"])
	case "game-won":
		fmt.Printf("[%s] %v won the game!\n", ts, event["playerName"])
	case "error":
		fmt.Printf("[%s] error: %v\n", ts, event["message"])
	default:
		fmt.Printf("[%s] %s\n", ts, string(data))
	}
}
