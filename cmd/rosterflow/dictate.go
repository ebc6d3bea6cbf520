package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rosterflow/rosterflow/internal/cli"
	"github.com/rosterflow/rosterflow/internal/common"
	"github.com/rosterflow/rosterflow/internal/engine"
	"github.com/rosterflow/rosterflow/internal/parser"
	"github.com/spf13/cobra"
)

func dictateCmd() *cobra.Command {
	var (
		domainFlag string
		autoAccept bool
	)

	cmd := &cobra.Command{
		Use:   "dictate <command text>",
		Short: "Parse a spoken command and review the staged changes",
		Long: `Send a transcribed voice command to the parser, stage the resulting
candidate changes, and review them interactively. Nothing is persisted
until you confirm it and apply.

Examples:
  rosterflow dictate "add a rule that nobody closes twice in a row, priority 80"
  rosterflow dictate --domain schedule "move Priya's tuesday 9am to wednesday 10am"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			transcript := strings.Join(args, " ")

			domain, err := parseDomain(domainFlag)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p, err := parser.New(ctx, parserConfig(), nil)
			if err != nil {
				return err
			}
			defer p.Close()

			prompter := cli.NewPrompter(nil, nil)
			eng := engine.NewWithConfig(store, p, prompter, engine.Config{
				MinConfidence: minConfidence(),
				AutoAccept:    autoAccept,
			})
			eng.OnCommitProgress(prompter.CommitProgress)

			err = eng.Dictate(ctx, transcript, domain)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, common.ErrUnrecognized):
				fmt.Println(cli.FormatWarning("Sorry, I couldn't make a scheduling command out of that. Try rephrasing."))
				return nil
			default:
				var parseErr *parser.ParseError
				if errors.As(err, &parseErr) {
					fmt.Println(cli.FormatError("The parser is unavailable right now. Try again in a moment."))
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&domainFlag, "domain", "", "command domain: rules, staff, or schedule (default: all kinds allowed)")
	cmd.Flags().BoolVar(&autoAccept, "auto", false, "confirm every candidate and apply without review")

	return cmd
}

func parseDomain(flag string) (parser.Domain, error) {
	switch strings.ToLower(flag) {
	case "":
		return "", nil
	case "rules":
		return parser.DomainRules, nil
	case "staff":
		return parser.DomainStaff, nil
	case "schedule":
		return parser.DomainSchedule, nil
	default:
		return "", fmt.Errorf("unknown domain %q (want rules, staff, or schedule)", flag)
	}
}
