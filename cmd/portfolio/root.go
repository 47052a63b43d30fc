package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio backend: database initializer and contact API",
		Long: `Portfolio backend: database initializer and contact API.

Configuration is read from the environment and, if present, a .env file:
  MONGODB_URI, DATABASE_NAME, APP_DB_USER, APP_DB_PASSWORD, ...`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				log.Printf("Warning: Could not load .env file: %v", err)
			}
			if logLevel != "" {
				return os.Setenv("LOG_LEVEL", logLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(
		newInitDBCommand(),
		newServeCommand(),
		newHashPasswordCommand(),
	)
	return cmd
}
