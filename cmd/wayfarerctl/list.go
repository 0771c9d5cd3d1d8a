// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/store"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		expType string
		sortBy  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print approved experiences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			expType = strings.ToLower(strings.TrimSpace(expType))
			if expType != store.TypeAll && !models.ExperienceType(expType).Valid() {
				return fmt.Errorf("invalid --type %q", expType)
			}
			if !store.ValidSort(sortBy) {
				return fmt.Errorf("invalid --sort %q", sortBy)
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			items, total, err := st.List(cmd.Context(), store.ListQuery{
				Status: models.StatusApproved,
				Type:   expType,
				Sort:   sortBy,
				Page:   1,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				public := make([]*models.Experience, 0, len(items))
				for _, exp := range items {
					public = append(public, exp.Public())
				}
				return json.NewEncoder(out).Encode(public)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tLIKES\tVIEWS\tCREATED")
			for _, exp := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					exp.ID, exp.Type, exp.Title, exp.Likes, exp.Views, exp.CreatedAt.Format("2006-01-02"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d\n", len(items), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&expType, "type", store.TypeAll, "experience type or all")
	cmd.Flags().StringVar(&sortBy, "sort", store.DefaultSort, "sort field, prefix - for descending")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows, 0 for all")
	return cmd
}
