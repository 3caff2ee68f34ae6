package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentlint/agentlint/internal/scenario"
)

func newScenariosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Inspect scenario files",
	}

	cmd.AddCommand(newScenariosListCommand())
	cmd.AddCommand(newScenariosValidateCommand())

	return cmd
}

func newScenariosListCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "list <dir>",
		Short:         "List the scenarios in a directory",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := scenario.LoadDir(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(scenarios) == 0 {
				fmt.Fprintf(out, "no scenarios in %s\n", args[0])
				return nil
			}
			for _, sc := range scenarios {
				extras := describeScenario(sc)
				if extras != "" {
					fmt.Fprintf(out, "%s  session=%s  %s\n", sc.Name, sc.SessionID, extras)
				} else {
					fmt.Fprintf(out, "%s  session=%s\n", sc.Name, sc.SessionID)
				}
			}
			return nil
		},
	}
}

func newScenariosValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "validate <file-or-dir>",
		Short:         "Validate scenario files without running them",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := loadScenarios(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d scenario(s) valid\n", len(scenarios))
			return nil
		},
	}
}

// describeScenario summarizes a scenario's non-default settings for the list
// output.
func describeScenario(sc *scenario.Scenario) string {
	var parts []string
	if len(sc.Evaluators) > 0 {
		parts = append(parts, fmt.Sprintf("evaluators=%s", strings.Join(sc.Evaluators, ",")))
	}
	if len(sc.Behavior) > 0 {
		parts = append(parts, "behavior=declared")
	}
	if sc.FailOn != "" && sc.FailOn != "error" {
		parts = append(parts, "fail_on="+sc.FailOn)
	}
	return strings.Join(parts, "  ")
}
