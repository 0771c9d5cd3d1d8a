// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/wayfarer/internal/reaction"
)

func newReconcileCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair like and view counters that drifted from their user sets",
		Long: `Scan every experience and make likes equal the number of distinct users in
likedBy and views equal the distinct users in viewedBy plus anonymous views.
Duplicate user ids are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			engine := reaction.NewEngine(st, opts.cfg.Reactions)
			report, err := engine.ReconcileAll(cmd.Context(), st, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return json.NewEncoder(out).Encode(struct {
					Scanned  int      `json:"scanned"`
					Repaired []string `json:"repaired"`
					DryRun   bool     `json:"dryRun"`
				}{report.Scanned, nonNil(report.Repaired), dryRun})
			}

			verb := "repaired"
			if dryRun {
				verb = "would repair"
			}
			fmt.Fprintf(out, "scanned %d experiences, %s %d\n", report.Scanned, verb, len(report.Repaired))
			for _, id := range report.Repaired {
				fmt.Fprintf(out, "  %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without writing")
	return cmd
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
