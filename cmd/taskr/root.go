package main

import (
	"github.com/spf13/cobra"
)

// configFile is the --config flag shared by all subcommands.
var configFile string

// NewRootCmd creates the root command for the taskr CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskr",
		Short: "taskr - a multi-user task tracking API",
		Long: `taskr serves a JSON API for account registration, session-based
authentication and per-user task lists.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
