// Package cmd provides the athenaeum command line: the website server and
// the operator tools around it.
//
// Configuration is read from the environment, optionally seeded from an env
// file (see --env-file), and can be overridden by flags.
package cmd

import (
	"github.com/namsos-athenaeum/athenaeum/config"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "athenaeum",
	Short: "Website and booking form for Namsos Athenæum",
	Long: `athenaeum serves the public pages of Namsos Athenæum and handles the
room booking form: human verification, field validation, the notification
mail to the venue and the submission logs.

Quick Start:
  athenaeum serve              Run the website
  athenaeum follow             Print submission outcomes from the feed
  athenaeum version            Show version information`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "env file loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-dir", "logs", "directory for submission and access logs")
}
