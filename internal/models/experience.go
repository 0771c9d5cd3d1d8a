// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

import (
	"slices"
	"time"
)

// ExperienceType classifies what the experience report is about.
type ExperienceType string

// Supported experience types.
const (
	TypeHotel   ExperienceType = "hotel"
	TypeTravel  ExperienceType = "travel"
	TypeAirline ExperienceType = "airline"
	TypeTour    ExperienceType = "tour"
	TypeEvent   ExperienceType = "event"
	TypeOther   ExperienceType = "other"
)

// ExperienceTypes lists every valid type in display order.
var ExperienceTypes = []ExperienceType{TypeHotel, TypeTravel, TypeAirline, TypeTour, TypeEvent, TypeOther}

// Valid reports whether t is a known experience type.
func (t ExperienceType) Valid() bool {
	return slices.Contains(ExperienceTypes, t)
}

// ExperienceStatus is the moderation state of a submission. Only approved
// experiences are listed publicly.
type ExperienceStatus string

// Moderation states. New submissions are approved unless configured otherwise.
const (
	StatusPending  ExperienceStatus = "pending"
	StatusApproved ExperienceStatus = "approved"
	StatusRejected ExperienceStatus = "rejected"
)

// Submitter identifies who wrote an experience. Email is stored lower-cased.
type Submitter struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// Experience is one user-submitted experience report together with its
// reaction state.
//
// Reaction fields are owned by the reaction engine. After every completed
// transition Likes == len(LikedBy) and Views == len(ViewedBy) + AnonymousViews;
// AnonymousViews stays zero unless anonymous view counting is enabled.
// LikedBy and ViewedBy are sets: no user id appears twice.
type Experience struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Type           ExperienceType   `json:"type"`
	Duration       string           `json:"duration"`
	Location       string           `json:"location"`
	Description    string           `json:"description"`
	SkillsLearned  []string         `json:"skillsLearned"`
	Challenges     string           `json:"challenges,omitempty"`
	Advice         string           `json:"advice,omitempty"`
	User           Submitter        `json:"user"`
	IsAnonymous    bool             `json:"isAnonymous"`
	Likes          int              `json:"likes"`
	LikedBy        []string         `json:"likedBy"`
	Views          int              `json:"views"`
	ViewedBy       []string         `json:"viewedBy"`
	AnonymousViews int              `json:"anonymousViews,omitempty"`
	Status         ExperienceStatus `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// HasLiked reports whether userID is in LikedBy.
func (e *Experience) HasLiked(userID string) bool {
	return slices.Contains(e.LikedBy, userID)
}

// HasViewed reports whether userID is in ViewedBy.
func (e *Experience) HasViewed(userID string) bool {
	return slices.Contains(e.ViewedBy, userID)
}

// Clone returns a deep copy so callers can mutate without aliasing stored slices.
func (e *Experience) Clone() *Experience {
	if e == nil {
		return nil
	}
	c := *e
	c.SkillsLearned = slices.Clone(e.SkillsLearned)
	c.LikedBy = slices.Clone(e.LikedBy)
	c.ViewedBy = slices.Clone(e.ViewedBy)
	return &c
}

// Public returns the copy served to API clients and broadcast to viewers.
// Anonymous submissions hide the submitter's name and email; the role is kept
// because it gives the report context without identifying anyone.
func (e *Experience) Public() *Experience {
	c := e.Clone()
	if c == nil {
		return nil
	}
	if c.IsAnonymous {
		c.User.Name = "Anonymous"
		c.User.Email = ""
	}
	if c.SkillsLearned == nil {
		c.SkillsLearned = []string{}
	}
	if c.LikedBy == nil {
		c.LikedBy = []string{}
	}
	if c.ViewedBy == nil {
		c.ViewedBy = []string{}
	}
	return c
}
