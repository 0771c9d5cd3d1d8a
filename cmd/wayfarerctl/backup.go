// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup FILE",
		Short: "Write a full snapshot of the record store to FILE",
		Long: `Write a full snapshot of the record store to FILE in BadgerDB backup
format. An existing FILE is not overwritten. Restore it with "wayfarerctl restore".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path := args[0]

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			w := bufio.NewWriter(f)

			version, err := st.Backup(cmd.Context(), w)
			if err == nil {
				err = w.Flush()
			}
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(path)
				return fmt.Errorf("backup failed: %w", err)
			}

			info, err := os.Stat(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return json.NewEncoder(out).Encode(struct {
					File    string `json:"file"`
					Bytes   int64  `json:"bytes"`
					Version uint64 `json:"version"`
				}{path, info.Size(), version})
			}
			fmt.Fprintf(out, "wrote %s (%d bytes, version %d)\n", path, info.Size(), version)
			return nil
		},
	}
}

func newRestoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Load a snapshot written by backup into an empty record store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer f.Close()

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := st.Restore(cmd.Context(), bufio.NewReader(f)); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s into %s\n", args[0], opts.cfg.Storage.Path)
			return nil
		},
	}
}
