// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package logging

import "strings"

// maxLoggedValueLen bounds client-supplied strings written to the log.
const maxLoggedValueLen = 128

// SanitizeValue makes a client-supplied value safe to log: control characters
// are replaced so a value cannot forge log lines, and long values are cut.
func SanitizeValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, s)
	if len(s) > maxLoggedValueLen {
		return s[:maxLoggedValueLen] + "..."
	}
	return s
}

// SanitizeEmail keeps the first character and the domain: "j***@example.com".
func SanitizeEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + SanitizeValue(email[at:])
}
