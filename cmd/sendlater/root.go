// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the sendlater CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sendlater",
		Short: "sendlater - schedule emails for later delivery",
		Long: `sendlater is a backend service that lets registered users author
emails and schedule them for later delivery.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
