package commands

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amakodev/ADM-travels/internal/config"
)

var cfg *config.Config

func Execute() error {
	root := &cobra.Command{
		Use:           "admtravels",
		Short:         "ADM Travels booking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.LoadConfig()
			setLogLevel(cfg.LogLevel)
			return nil
		},
	}

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd())

	// running the binary without a sub-command starts the server
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		return err
	}
	return nil
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
