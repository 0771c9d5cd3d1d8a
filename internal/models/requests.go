// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// SkillList decodes either a JSON array of strings or a single
// comma-separated string ("negotiation, patience") into trimmed, non-empty
// entries. Web forms submit the latter.
type SkillList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*s = SplitSkills(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("skillsLearned must be a string or an array of strings: %w", err)
	}
	out := make([]string, 0, len(list))
	for _, skill := range list {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	*s = out
	return nil
}

// SplitSkills splits a comma-separated skill string.
func SplitSkills(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SubmitterRequest is the submitter block of a new experience.
type SubmitterRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Role  string `json:"role" validate:"required,max=100"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

// CreateExperienceRequest is the body of POST /api/experiences.
// Reaction counters, status and timestamps are never taken from the client.
type CreateExperienceRequest struct {
	Title         string           `json:"title" validate:"required,max=200"`
	Type          string           `json:"type" validate:"required,experience_type"`
	Duration      string           `json:"duration" validate:"required,max=100"`
	Location      string           `json:"location" validate:"required,max=200"`
	Description   string           `json:"description" validate:"required,min=50,max=10000"`
	SkillsLearned SkillList        `json:"skillsLearned" validate:"max=50,dive,max=100"`
	Challenges    string           `json:"challenges" validate:"max=5000"`
	Advice        string           `json:"advice" validate:"max=5000"`
	User          SubmitterRequest `json:"user"`
	IsAnonymous   bool             `json:"isAnonymous"`
}

// Normalize trims free-text fields and lower-cases the email, matching how
// submissions are stored. Call it before validation so "   " counts as empty.
func (r *CreateExperienceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Duration = strings.TrimSpace(r.Duration)
	r.Location = strings.TrimSpace(r.Location)
	r.Challenges = strings.TrimSpace(r.Challenges)
	r.Advice = strings.TrimSpace(r.Advice)
	r.User.Name = strings.TrimSpace(r.User.Name)
	r.User.Role = strings.TrimSpace(r.User.Role)
	r.User.Email = strings.ToLower(strings.TrimSpace(r.User.Email))
}

// ToExperience builds the record to store. ID and CreatedAt are assigned by
// the store.
func (r *CreateExperienceRequest) ToExperience() *Experience {
	skills := []string(r.SkillsLearned)
	if skills == nil {
		skills = []string{}
	}
	return &Experience{
		Title:         r.Title,
		Type:          ExperienceType(r.Type),
		Duration:      r.Duration,
		Location:      r.Location,
		Description:   r.Description,
		SkillsLearned: skills,
		Challenges:    r.Challenges,
		Advice:        r.Advice,
		User: Submitter{
			Name:  r.User.Name,
			Role:  r.User.Role,
			Email: r.User.Email,
		},
		IsAnonymous: r.IsAnonymous,
		LikedBy:     []string{},
		ViewedBy:    []string{},
		Status:      StatusApproved,
	}
}

// ReactionRequest is the body of the like and view endpoints.
type ReactionRequest struct {
	UserID string `json:"userId"`
}
