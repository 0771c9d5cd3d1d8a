// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package validation wraps go-playground/validator v10 with a shared
// instance, Wayfarer's custom tags and human-readable messages.
//
//	req.Normalize()
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondValidationError(w, verr.Messages())
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/wayfarer/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is a single failed rule.
type ValidationError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the JSON path of the failing field, e.g. "user.name".
func (e *ValidationError) Field() string { return e.field }

// Tag returns the failing validation tag.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the tag parameter ("200" for max=200).
func (e *ValidationError) Param() string { return e.param }

// Error returns the human-readable message.
func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failed rule of one request.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the individual failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Messages returns one message per failure, in field order.
func (ve *RequestValidationError) Messages() []string {
	msgs := make([]string, len(ve.errors))
	for i := range ve.errors {
		msgs[i] = ve.errors[i].message
	}
	return msgs
}

// Error implements error.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.Messages(), "; ")
}

// GetValidator returns the shared validator, creating it on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages and field paths match the request body.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		if err := validate.RegisterValidation("experience_type", validateExperienceType); err != nil {
			panic(fmt.Sprintf("register experience_type validator: %v", err))
		}
	})
	return validate
}

func validateExperienceType(fl validator.FieldLevel) bool {
	return models.ExperienceType(fl.Field().String()).Valid()
}

// ValidateStruct returns nil when s passes every rule.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []ValidationError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	out := make([]ValidationError, len(validationErrs))
	for i, fe := range validationErrs {
		path := fieldPath(fe)
		out[i] = ValidationError{
			field:   path,
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translateError(fe, path),
		}
	}
	return &RequestValidationError{errors: out}
}

// fieldPath strips the root struct name: "CreateExperienceRequest.user.name" -> "user.name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// fieldMessages are the submission form messages users already know.
// Keys are "<json path>:<tag>".
var fieldMessages = map[string]string{
	"title:required":       "Please add a title",
	"title:max":            "Title cannot be more than 200 characters",
	"type:required":        "Please select an experience type",
	"type:experience_type": "Type must be one of: hotel, travel, airline, tour, event, other",
	"duration:required":    "Please specify duration",
	"location:required":    "Please add location",
	"description:required": "Please add a description",
	"description:min":      "Description must be at least 50 characters",
	"user.name:required":   "Please add your name",
	"user.role:required":   "Please add your role",
	"user.email:email":     "Please add a valid email",
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translateError(fe validator.FieldError, path string) string {
	if msg, ok := fieldMessages[path+":"+fe.Tag()]; ok {
		return msg
	}
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, path)
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, path, fe.Param())
	}
	return translateMinMax(fe, path)
}

func translateMinMax(fe validator.FieldError, path string) string {
	var unit string
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice:
		unit = " items"
	}

	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", path, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", path, fe.Param(), unit)
	default:
		return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
	}
}
