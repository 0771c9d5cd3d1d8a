// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package models defines the data structures shared by the store, the reaction
engine, the HTTP API and the realtime layer.

Key Components:

  - Experience: a stored experience report with its reaction state
  - CreateExperienceRequest: the submission body, normalized before validation
  - ReactionRequest: the body of the like and view endpoints
  - Response types: the flat {success, ...} bodies returned by the API

Reaction Invariants:

Experience.LikedBy and Experience.ViewedBy are sets of user ids. After every
completed reaction transition:

	Likes == len(LikedBy)
	Views == len(ViewedBy) + AnonymousViews

Only the reaction engine writes these fields. Submissions never carry them:
ToExperience starts every new record at zero.

Public Projection:

Experience.Public returns the copy served to clients. Anonymous submissions
have the submitter's name replaced by "Anonymous" and the email removed.

JSON Encoding:

Models use github.com/goccy/go-json. SkillList accepts either an array of
strings or a single comma-separated string, since web forms submit the latter.
*/
package models
