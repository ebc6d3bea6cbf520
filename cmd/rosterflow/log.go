package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/rosterflow/rosterflow/internal/cli"
	"github.com/spf13/cobra"
)

func logCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recently applied voice commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetCommandLog(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to get command log: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No commands applied yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("Applied"),
				headerStyle.Render("Kind"),
				headerStyle.Render("Transcript"))

			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					entry.AppliedAt.Format("2006-01-02 15:04"),
					entry.Kind,
					entry.Transcript)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "how many entries to show")
	return cmd
}
