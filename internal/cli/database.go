package cli

import (
	"fmt"
	"log/slog"

	"github.com/gdg-garage/itinerary-api/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func connect(e *env) (*gorm.DB, func(), error) {
	db, err := database.Connect(e.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { sqlDB.Close() }, nil
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeDB, err := connect(e)
			if err != nil {
				return err
			}
			defer closeDB()

			e.logger.Info("database migrated", slog.String("path", e.cfg.DatabasePath))
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog, demo user and sample trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := connect(e)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := database.Seed(cmd.Context(), db, e.logger); err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s (demo login %s / %s)\n",
				e.cfg.DatabasePath, database.DemoEmail, database.DemoPassword)
			return nil
		},
	}
}
