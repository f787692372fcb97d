package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"brokerd/internal/audit"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent entries from the broker audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Audit.Enabled {
				return fmt.Errorf("audit trail is disabled in configuration")
			}

			log, err := audit.Open(cfg.AuditPath())
			if err != nil {
				return fmt.Errorf("open audit log: %w", err)
			}
			defer log.Close()

			entries, err := log.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read audit log: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit entries recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.At.Local().Format(time.RFC3339),
					entry.Transport,
					entry.Operation,
					strconv.FormatUint(uint64(entry.UID), 10),
					entry.CorrelationID,
					entry.Outcome,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "Transport", "Operation", "UID", "Correlation ID", "Outcome"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}
