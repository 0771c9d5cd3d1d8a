// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/validation"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var skipInvalid bool

	cmd := &cobra.Command{
		Use:   "import <file.yaml|file.json>",
		Short: "Create experiences from a YAML or JSON file",
		Long: `Create experiences from a YAML or JSON file holding a list of submissions
(or {experiences: [...]}) in the same shape POST /api/experiences accepts.

Every entry is validated first. Unless --skip-invalid is set, one invalid entry
aborts the import before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			reqs, err := readSubmissions(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			valid := make([]*models.CreateExperienceRequest, 0, len(reqs))
			invalid := 0
			for i, req := range reqs {
				req.Normalize()
				if verr := validation.ValidateStruct(req); verr != nil {
					invalid++
					fmt.Fprintf(out, "entry %d: %s\n", i+1, strings.Join(verr.Messages(), "; "))
					continue
				}
				valid = append(valid, req)
			}
			if invalid > 0 && !skipInvalid {
				return fmt.Errorf("%d of %d entries are invalid; nothing imported", invalid, len(reqs))
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

			for _, req := range valid {
				exp, err := st.Create(cmd.Context(), req.ToExperience())
				if err != nil {
					return fmt.Errorf("create %q: %w", req.Title, err)
				}
				fmt.Fprintf(out, "imported %s %q\n", exp.ID, exp.Title)
			}
			fmt.Fprintf(out, "%d imported, %d skipped\n", len(valid), invalid)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "import the valid entries and skip the rest")
	return cmd
}

// readSubmissions decodes path by extension. YAML is converted to JSON first
// so both formats go through the same field names and skillsLearned handling.
func readSubmissions(path string) ([]*models.CreateExperienceRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported file type %q: use .yaml, .yml or .json", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	entries, err := submissionList(doc)
	if err != nil {
		return nil, err
	}

	reqs := make([]*models.CreateExperienceRequest, 0, len(entries))
	for i, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		var req models.CreateExperienceRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		reqs = append(reqs, &req)
	}
	return reqs, nil
}

// submissionList accepts a bare list or the wrapper form {experiences: [...]}.
func submissionList(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["experiences"].([]any); ok {
			return list, nil
		}
	}
	return nil, errors.New("expected a list of experiences or an experiences: key")
}
