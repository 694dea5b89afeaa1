package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomCheckCmd())
	cmd.AddCommand(newRoomByCreatorCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		name         string
		private      bool
		password     string
		maxPlayers   int
		creatorID    string
		creatorName  string
		targetDigits int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":       name,
				"isPublic":   !private,
				"maxPlayers": maxPlayers,
				"creatorId":  creatorID,
			}
			if password != "" {
				req["password"] = password
			}
			if creatorName != "" {
				req["creatorName"] = creatorName
			}
			if targetDigits > 0 {
				req["targetDigits"] = targetDigits
			}

			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name (required)")
	cmd.Flags().BoolVar(&private, "private", false, "Create a private room")
	cmd.Flags().StringVar(&password, "password", "", "Join password for private rooms")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 4, "Maximum number of players")
	cmd.Flags().StringVar(&creatorID, "creator-id", "", "Creator player ID (required)")
	cmd.Flags().StringVar(&creatorName, "creator-name", "", "Creator display name")
	cmd.Flags().IntVar(&targetDigits, "digits", 0, "Target number length (default: server default)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("creator-id")

	return cmd
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List public rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomList

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomCheckCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "check <room-id>",
		Short: "Check whether a room can be joined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if password != "" {
				req["password"] = password
			}

			var result ValidateJoinResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Join password for private rooms")

	return cmd
}

func newRoomByCreatorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-creator <user-id>",
		Short: "List rooms created by a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomList

			if err := client.Get(fmt.Sprintf("/api/v1/players/%s/rooms", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
