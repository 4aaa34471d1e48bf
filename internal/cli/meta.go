package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List available question topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TopicsResult

			if err := client.Get("/api/v1/topics", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List finished game sessions, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if len(args) == 1 {
				var summary SessionSummary
				if err := client.Get("/api/v1/history/"+args[0], &summary); err != nil {
					return err
				}
				out.Print(HistoryPage{Total: 1, Limit: 1, Summaries: []SessionSummary{summary}})
				return nil
			}

			var result HistoryPage
			path := fmt.Sprintf("/api/v1/history?limit=%d&offset=%d", limit, offset)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
