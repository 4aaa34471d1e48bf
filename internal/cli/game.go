package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameFakeCmd())
	cmd.AddCommand(newGameChooseCmd())
	cmd.AddCommand(newGameAdvanceCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "start <room-id>",
		Short: "Start the game with questions from a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topic == "" {
				return fmt.Errorf("--topic is required")
			}

			req := map[string]string{"topic": topic}
			var result GameState

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/start", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Question topic (required)")

	return cmd
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <room-id>",
		Short: "Get the current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s/state", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameFakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fake <room-id> <text>",
		Short: "Submit your fake answer for the current question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"text": args[1]}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/fake", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Fake answer submitted")
			return nil
		},
	}
}

func newGameChooseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "choose <room-id> <answer>",
		Short: "Choose an answer from the presented list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"answer": args[1]}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/choose", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Answer chosen")
			return nil
		},
	}
}

func newGameAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <room-id>",
		Short: "Advance to the next round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/advance", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
