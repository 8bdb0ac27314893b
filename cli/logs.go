package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/learllr/osteolog/jobs"
	"github.com/learllr/osteolog/models"
	"github.com/spf13/cobra"
)

// NewLogsCommand creates the logs command group.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect and purge persisted request logs",
	}
	cmd.AddCommand(newLogsListCommand(rootOpts))
	cmd.AddCommand(newLogsPurgeCommand(rootOpts))
	return cmd
}

func newLogsListCommand(rootOpts *RootOptions) *cobra.Command {
	var filter models.LogFilter
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			store, err := openStore(cmd.Context(), loadConfig(rootOpts))
			if err != nil {
				return err
			}
			defer store.Close()

			logs, err := store.ListLogs(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := newOutput(rootOpts, cmd)
			if out.json() {
				return out.result(logs, "")
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tLEVEL\tMETHOD\tPATH\tSTATUS\tEMAIL")
			for _, l := range logs {
				email := "-"
				if l.Email != nil {
					email = *l.Email
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					l.Timestamp.Local().Format("2006-01-02 15:04:05"), l.LogLevel, l.Method, l.Path, l.StatusCode, email)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.LogLevel, "level", "", "filter by level (success|info|warning|error)")
	cmd.Flags().StringVar(&filter.Method, "method", "", "filter by HTTP method")
	cmd.Flags().StringVar(&filter.Email, "email", "", "filter by user email (substring)")
	cmd.Flags().DurationVar(&since, "since", 0, "only logs newer than this duration, e.g. 24h")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum number of rows")
	return cmd
}

func newLogsPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete logs older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(rootOpts)
			if days <= 0 {
				days = cfg.LogRetentionDays
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := jobs.NewLogRetention(store, days).Run(cmd.Context())
			if err != nil {
				return err
			}
			return newOutput(rootOpts, cmd).result(map[string]int64{"purged": n},
				"Purged %d log row(s) older than %d day(s)\n", n, days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention in days, defaults to LOG_RETENTION_DAYS")
	return cmd
}
