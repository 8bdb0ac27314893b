package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/jobs"
	"github.com/learllr/osteolog/routes"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, port string) error {
	cfg := loadConfig(opts)
	if port != "" {
		cfg.Port = port
	}
	if cfg.JWTSecret == "" {
		return &ExitError{Code: 2, Message: "JWT_SECRET is not set"}
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Println("Database connection established")

	scheduler, err := jobs.NewLogRetention(store, cfg.LogRetentionDays).Start()
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	broadcaster := events.NewBroadcaster()
	app := routes.NewApp(cfg, store, broadcaster)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down")
		broadcaster.Close()
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Osteolog API listening on port %s (%s, %s)", cfg.Port, cfg.DBDriver, cfg.Environment)
	log.Printf("Health check: http://localhost:%s/health", cfg.Port)
	return app.Listen(":" + cfg.Port)
}
