package cmd

import (
	"fmt"

	"github.com/namsos-athenaeum/athenaeum/config"
	"github.com/namsos-athenaeum/athenaeum/internal/app"
	"github.com/namsos-athenaeum/athenaeum/internal/models"
	"github.com/namsos-athenaeum/athenaeum/pkg/logger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Run the website",
	Long: `Run the website and the booking form handler.

In production mode every accepted submission is mailed to EMAIL_ADDRESS_TO.
In development mode the mail is only logged.

Examples:
  athenaeum serve
  athenaeum serve --port 3000
  APP_ENV=production athenaeum serve --env-file /etc/athenaeum.env`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Mode == models.ModeProduction, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg.LogConfiguration(log)

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context())
}
