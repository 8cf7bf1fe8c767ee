// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/sendlater/sendlater/internal/config"
	"github.com/sendlater/sendlater/internal/store"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and migration status",
		RunE:  runStatus,
	}

	cmd.Flags().String("database.url", "", "PostgreSQL connection string")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	pool, err := store.NewPool(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	cmd.Println("database: reachable")

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		cmd.Println("migrations: none applied")
		return nil
	}
	cmd.Printf("migrations: version %d, dirty=%v\n", version, dirty)
	return nil
}
