// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package validation

import (
	"slices"
	"strings"
	"testing"

	"github.com/tomtom215/wayfarer/internal/models"
)

func validRequest() models.CreateExperienceRequest {
	return models.CreateExperienceRequest{
		Title:         "Night shift at a harbour hotel",
		Type:          "hotel",
		Duration:      "6 months",
		Location:      "Lisbon",
		Description:   strings.Repeat("Front desk work taught me patience. ", 3),
		SkillsLearned: models.SkillList{"Portuguese", "conflict resolution"},
		User:          models.SubmitterRequest{Name: "Ana", Role: "Receptionist", Email: "ana@example.com"},
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	req := validRequest()
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(r *models.CreateExperienceRequest)
		wantField string
		wantMsg   string
	}{
		{"missing title", func(r *models.CreateExperienceRequest) { r.Title = "" }, "title", "Please add a title"},
		{"long title", func(r *models.CreateExperienceRequest) { r.Title = strings.Repeat("t", 201) }, "title", "Title cannot be more than 200 characters"},
		{"unknown type", func(r *models.CreateExperienceRequest) { r.Type = "cruise" }, "type", "Type must be one of: hotel, travel, airline, tour, event, other"},
		{"short description", func(r *models.CreateExperienceRequest) { r.Description = "too short" }, "description", "Description must be at least 50 characters"},
		{"missing duration", func(r *models.CreateExperienceRequest) { r.Duration = "" }, "duration", "Please specify duration"},
		{"missing location", func(r *models.CreateExperienceRequest) { r.Location = "" }, "location", "Please add location"},
		{"missing name", func(r *models.CreateExperienceRequest) { r.User.Name = "" }, "user.name", "Please add your name"},
		{"missing role", func(r *models.CreateExperienceRequest) { r.User.Role = "" }, "user.role", "Please add your role"},
		{"bad email", func(r *models.CreateExperienceRequest) { r.User.Email = "not-an-email" }, "user.email", "Please add a valid email"},
		{"long skill", func(r *models.CreateExperienceRequest) {
			r.SkillsLearned = models.SkillList{strings.Repeat("s", 101)}
		}, "skillsLearned[0]", "skillsLearned[0] must be at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.mutate(&req)

			verr := ValidateStruct(&req)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_CollectsAllFailures(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&models.CreateExperienceRequest{})
	if verr == nil {
		t.Fatal("empty request should fail")
	}

	msgs := verr.Messages()
	for _, want := range []string{"Please add a title", "Please add a description", "Please add your name"} {
		if !slices.Contains(msgs, want) {
			t.Errorf("messages %v missing %q", msgs, want)
		}
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() should join messages: %q", verr.Error())
	}
}
