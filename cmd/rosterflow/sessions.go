package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/rosterflow/rosterflow/internal/cli"
	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/service"
	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect the schedule",
	}

	cmd.AddCommand(listSessionsCmd())
	cmd.AddCommand(addSessionCmd())

	return cmd
}

func listSessionsCmd() *cobra.Command {
	var (
		staff         string
		day           string
		showCancelled bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := store.GetSessions(ctx, service.SessionFilter{
				Staff:         staff,
				Day:           day,
				IncludeCancel: showCancelled,
			})
			if err != nil {
				return fmt.Errorf("failed to get sessions: %w", err)
			}

			if len(sessions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No sessions match."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Staff"),
				headerStyle.Render("Day"),
				headerStyle.Render("Start"),
				headerStyle.Render("Room"),
				headerStyle.Render("Status"))

			for _, session := range sessions {
				status := string(session.Status)
				if session.Status == model.SessionCancelled {
					status = cli.ErrorStyle.Render(status)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					session.Staff, session.Day, session.Start, session.Room, status)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&staff, "staff", "", "only this staff member's sessions")
	cmd.Flags().StringVar(&day, "day", "", "only this day")
	cmd.Flags().BoolVar(&showCancelled, "all", false, "include cancelled sessions")
	return cmd
}

func addSessionCmd() *cobra.Command {
	var room string

	cmd := &cobra.Command{
		Use:   "add <staff> <day> <start>",
		Short: "Schedule a session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			session, err := store.CreateSession(ctx, &model.Session{
				Staff: args[0],
				Day:   args[1],
				Start: args[2],
				Room:  room,
			})
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Scheduled %s on %s at %s", session.Staff, session.Day, session.Start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "room for the session")
	return cmd
}
