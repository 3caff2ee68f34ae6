package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentlint/agentlint/internal/scenario"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a scenario file interactively",
		Long: `Create a new scenario file through an interactive form.

The form collects the scenario name, the session to evaluate, an optional
evaluator subset, the fail threshold, and common behavior constraints, then
writes <name>.yaml into the target directory.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runInit,
		SilenceErrors: true,
	}

	cmd.Flags().String("dir", ".", "Directory to write the scenario file into")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")

	initialName := ""
	if len(args) > 0 {
		initialName = args[0]
	}

	draft, err := scenario.RunWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialName)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, draft.Name+".yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scenario file: %w", err)
	}
	defer f.Close()

	if err := draft.Render(f); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
