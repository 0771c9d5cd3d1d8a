// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/store"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	dbPath  string
	verbose bool
	jsonOut bool

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wayfarerctl",
		Short: "Maintenance commands for the Wayfarer record store",
		Long: `Maintenance commands for the Wayfarer record store.

Configuration is read the same way the server reads it (config.yaml and
environment); --db overrides DB_PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.dbPath != "" {
				cfg.Storage.Path = opts.dbPath
			}
			if cfg.Storage.InMemory {
				return fmt.Errorf("DB_IN_MEMORY is set; there is no store on disk to maintain")
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "BadgerDB directory (default: DB_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging on stderr")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")

	cmd.AddCommand(newReconcileCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newBackupCommand(opts))
	cmd.AddCommand(newRestoreCommand(opts))

	return cmd
}

// openStore opens the configured store. The caller closes it.
func (o *rootOptions) openStore() (*store.Store, error) {
	st, err := store.Open(o.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s (is the server still running?): %w", o.cfg.Storage.Path, err)
	}
	return st, nil
}
