// Package cli holds the itinerary command tree: serve (the default),
// migrate and seed.
package cli

import (
	"io"
	"log/slog"

	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/logger"
	"github.com/spf13/cobra"
)

// env is shared by every command: the loaded configuration and the logger
// built from it.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the top-level "itinerary" command. Logs go to logOut,
// or stdout when nil.
func NewRootCmd(logOut io.Writer) *cobra.Command {
	e := &env{}
	var port, dbPath, logLevel string

	root := &cobra.Command{
		Use:           "itinerary",
		Short:         "Travel itinerary API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			e.cfg = cfg
			e.logger = logger.SetupDefault(logOut, logger.ParseLevel(cfg.LogLevel))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&port, "port", "", "listen port (overrides PORT)")
	flags.StringVar(&dbPath, "db", "", "sqlite database path (overrides DATABASE_PATH)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	serve := newServeCmd(e)
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		newMigrateCmd(e),
		newSeedCmd(e),
	)

	return root
}
