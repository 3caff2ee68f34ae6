package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentlint/agentlint/internal/sessionstore"
)

func newSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sessions",
		Short:         "List the sessions in a transcript directory",
		RunE:          runSessions,
		SilenceErrors: true,
	}

	cmd.Flags().String("sessions", "", "Directory containing session transcripts (required)")
	_ = cmd.MarkFlagRequired("sessions")

	return cmd
}

func runSessions(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("sessions")

	store, err := sessionstore.NewStore(dir)
	if err != nil {
		return err
	}

	infos, err := store.Sessions(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintf(out, "no sessions in %s\n", dir)
		return nil
	}

	for _, info := range infos {
		created := ""
		if info.CreatedAt > 0 {
			created = time.UnixMilli(info.CreatedAt).UTC().Format(time.RFC3339)
		}
		if info.Title != "" {
			fmt.Fprintf(out, "%s  %s  %s\n", info.ID, created, info.Title)
		} else {
			fmt.Fprintf(out, "%s  %s\n", info.ID, created)
		}
	}
	return nil
}
