package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/authkeeper/internal/audit"
	"github.com/mrlokans/authkeeper/internal/config"
	"github.com/mrlokans/authkeeper/internal/entrypoint"
)

// NewAuditCmd creates the audit command group.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and prune the authentication audit trail",
	}
	cmd.AddCommand(newAuditListCmd())
	cmd.AddCommand(newAuditPruneCmd())
	return cmd
}

func newAuditListCmd() *cobra.Command {
	var (
		accountID string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit events, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := entrypoint.OpenStores(cmd.Context(), config.NewConfig())
			if err != nil {
				return err
			}
			defer stores.Close()

			events, total, err := audit.NewService(stores.Audit).GetEvents(cmd.Context(), accountID, limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list audit events: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tACTION\tSTATUS\tUSERNAME\tREASON\tIP")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format(time.RFC3339), e.Action, e.Status, e.Username, e.Reason, e.IPAddress)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			cmd.Printf("%d of %d events\n", len(events), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "only events for this account id")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of events")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of events to skip")
	return cmd
}

func newAuditPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit events older than a retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.NewConfig()
			if !cmd.Flags().Changed("older-than") {
				olderThan = cfg.Audit.Retention
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			stores, err := entrypoint.OpenStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			deleted, err := audit.NewService(stores.Audit).DeleteOldEvents(cmd.Context(), olderThan)
			if err != nil {
				return fmt.Errorf("failed to prune audit events: %w", err)
			}
			cmd.Printf("Deleted %d audit events older than %s\n", deleted, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "retention period (default AUDIT_RETENTION)")
	return cmd
}
