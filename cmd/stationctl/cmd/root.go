package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/louagetn/station-client/internal/pkg/config"
	"github.com/louagetn/station-client/pkg/logger"
)

var (
	cfg      *config.Config
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "stationctl",
	Short: "Station kiosk session client",
	Long: `stationctl keeps a staff session alive on a station kiosk: it restores the
session at startup, verifies it with the auth service and serves the local
API the kiosk UI talks to. Settings come from the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		logger.Init(logger.Options{
			Level:     cfg.LogLevel,
			Pretty:    cfg.IsDevelopment(),
			StationID: cfg.StationID,
		})
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (trace, debug, info, warn, error)")
}

func log(component string) zerolog.Logger {
	return logger.For(component)
}
