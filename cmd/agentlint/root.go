package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentlint",
		Short: "agentlint - behavior analysis for recorded agent sessions",
		Long: `agentlint inspects recorded agent session transcripts and checks them
against behavior rules: approval gating, context loading, tool usage,
failure handling, and delegation.

It reads session transcripts from a directory, classifies the task the
agent performed, runs the applicable rules, and reports violations with
evidence.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newEvalCommand())
	cmd.AddCommand(newSessionsCommand())
	cmd.AddCommand(newScenariosCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
