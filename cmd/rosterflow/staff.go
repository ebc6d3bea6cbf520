package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/rosterflow/rosterflow/internal/cli"
	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/spf13/cobra"
)

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff members",
	}

	cmd.AddCommand(listStaffCmd())
	cmd.AddCommand(addStaffCmd())

	return cmd
}

func listStaffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all staff members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			members, err := store.GetStaff(ctx)
			if err != nil {
				return fmt.Errorf("failed to get staff: %w", err)
			}

			if len(members) == 0 {
				fmt.Println(cli.InfoStyle.Render("No staff members yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("Name"),
				headerStyle.Render("Role"),
				headerStyle.Render("Hours/week"))

			for _, member := range members {
				fmt.Fprintf(w, "%s\t%s\t%d\n", member.Name, member.Role, member.WeeklyHours)
			}

			return nil
		},
	}
}

func addStaffCmd() *cobra.Command {
	var (
		role  string
		hours int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a staff member",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			member, err := store.CreateStaff(ctx, model.StaffPayload{
				Name:        strings.Join(args, " "),
				Role:        role,
				WeeklyHours: hours,
			})
			if err != nil {
				return fmt.Errorf("failed to create staff member: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s (%s)", member.Name, member.Role)))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "staff", "role title")
	cmd.Flags().IntVar(&hours, "hours", 40, "contracted hours per week")
	return cmd
}
