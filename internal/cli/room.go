package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomFindCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var kind string
	var questions int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"kind":            kind,
				"total_questions": questions,
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

	cmd.Flags().StringVar(&kind, "kind", "public", "Room kind: public, private")
	cmd.Flags().IntVar(&questions, "questions", 5, "Number of questions per game")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Get a room by id",
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

func newRoomFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <join-code>",
		Short: "Find a private room by its join code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/code/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string
	var avatar string
	var accountID int64

	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]any{
				"display_name": name,
				"avatar":       avatar,
			}
			if accountID > 0 {
				req["account_id"] = accountID
			}

			var result JoinResult
			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", args[0]), req, &result); err != nil {
				return err
			}

			// Persist the issued connection id for subsequent commands
			if err := cfg.SavePlayerID(result.ConnID); err != nil {
				return fmt.Errorf("joined but could not save connection id: %w", err)
			}
			client.SetPlayerID(result.ConnID)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar identifier")
	cmd.Flags().Int64Var(&accountID, "account", 0, "Registered account id")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <room-id>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left room")
			return nil
		},
	}
}
