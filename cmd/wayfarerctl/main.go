// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Command wayfarerctl is the offline maintenance tool for a Wayfarer record
// store. Badger holds an exclusive lock on its directory, so stop the server
// before running it against the same DB_PATH.
//
//	wayfarerctl reconcile --dry-run
//	wayfarerctl list --type hotel --limit 20
//	wayfarerctl import seed.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
