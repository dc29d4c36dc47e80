package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amakodev/ADM-travels/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply checkout ledger migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrate")
			}
			version, err := postgres.RunMigrations(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Info().Uint("version", version).Msg("Migrations applied")
			return nil
		},
	}
}
