// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the projecttasks CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projecttasks",
		Short: "ProjectTasks - a multi-user project and task tracker",
		Long: `ProjectTasks is a multi-user project and task tracker with
token-based authentication and per-user ownership of all resources.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Best effort; a missing .env file is the normal case in
			// production.
			_ = godotenv.Load() //nolint:errcheck
		},
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
