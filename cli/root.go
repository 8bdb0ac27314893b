package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/learllr/osteolog/config"
	"github.com/learllr/osteolog/database"
	"github.com/spf13/cobra"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags for all commands. Driver and DatabaseURL
// override DB_DRIVER and DATABASE_URL when set.
type RootOptions struct {
	Format      string
	Driver      string
	DatabaseURL string
}

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand creates the osteolog command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "osteolog",
		Short: "Osteolog - clinic records for osteopaths",
		Long:  "REST API server and maintenance commands for the osteolog patient records store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver (postgres|sqlite|mysql), overrides DB_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database", "", "database DSN, overrides DATABASE_URL")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewPatientsCommand(opts))

	return cmd
}

// Execute runs the root command and exits with the command's code on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		code := 1
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
		}
		os.Exit(code)
	}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig reads the environment then applies the flag overrides.
func loadConfig(opts *RootOptions) config.Config {
	cfg := config.Load()
	if opts.Driver != "" {
		cfg.DBDriver = opts.Driver
	}
	if opts.DatabaseURL != "" {
		cfg.DatabaseURL = opts.DatabaseURL
	}
	return cfg
}

// openStore connects and migrates the configured database.
func openStore(ctx context.Context, cfg config.Config) (*database.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, &ExitError{Code: 2, Message: "DATABASE_URL is not set"}
	}
	store, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: "open database", Err: err}
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, &ExitError{Code: 2, Message: "migrate database", Err: err}
	}
	return store, nil
}
