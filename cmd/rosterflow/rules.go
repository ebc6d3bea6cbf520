package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/rosterflow/rosterflow/internal/cli"
	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage scheduling rules",
		Long:  `List, add, and delete the scheduling rules that voice commands can also create.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(deleteRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all active rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var rules []model.Rule
			if category != "" {
				rules, err = store.GetRulesByCategory(ctx, category)
			} else {
				rules, err = store.GetRules(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to get rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rules found. Use 'rosterflow rules add' or dictate one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Category"),
				headerStyle.Render("Priority"),
				headerStyle.Render("Description"))

			for _, rule := range rules {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", rule.ID, rule.Category, rule.Priority, rule.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only rules in this category")
	return cmd
}

func addRuleCmd() *cobra.Command {
	var (
		category string
		priority int
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a new rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := store.CreateRule(ctx, model.RulePayload{
				Category:    category,
				Description: strings.Join(args, " "),
				Priority:    priority,
			})
			if err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %d: %s", rule.ID, rule.Description)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "general", "rule category")
	cmd.Flags().IntVar(&priority, "priority", 50, "rule priority (0-100)")
	return cmd
}

func deleteRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %d", id)))
			return nil
		},
	}
}
