package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hemosim/hemosim/internal/sessionlog"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded teaching sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rec, err := sessionlog.OpenReadOnly(cfg.SessionDir())
			if err != nil {
				return fmt.Errorf("failed to open session log: %w", err)
			}
			defer rec.Close()

			sessions, err := rec.Sessions(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"sessions": sessions,
					"count":    len(sessions),
				})
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions recorded yet.")
				fmt.Println("\nRun 'hemosim demo --record' to record one.")
				return nil
			}

			fmt.Printf("Recorded sessions (%d):\n\n", len(sessions))
			for _, s := range sessions {
				fmt.Printf("  %4d  %s  %d events\n",
					s.ID, s.StartedAt.Format(time.RFC3339), s.Events)
			}
			return nil
		},
	}

	cmd.AddCommand(newSessionsExportCmd())
	return cmd
}

func newSessionsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export one session's event stream as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id: %s", args[0])
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rec, err := sessionlog.OpenReadOnly(cfg.SessionDir())
			if err != nil {
				return fmt.Errorf("failed to open session log: %w", err)
			}
			defer rec.Close()

			return rec.ExportJSON(context.Background(), os.Stdout, id)
		},
	}
}
