package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Form is the raw RSVP payload posted by the invitation page.
// Absent keys decode to empty strings.
type Form struct {
	Name       string `json:"name"`
	Kana       string `json:"kana"`
	Email      string `json:"email"`
	Attendance string `json:"attendance"`
	Allergy    string `json:"allergy,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Required field names, in the order they are reported
const (
	FieldName       = "name"
	FieldKana       = "kana"
	FieldEmail      = "email"
	FieldAttendance = "attendance"
)

// MissingFields returns the required fields that are absent or blank.
// An empty result means the form is valid.
func MissingFields(f Form) []string {
	required := []struct {
		name  string
		value string
	}{
		{FieldName, f.Name},
		{FieldKana, f.Kana},
		{FieldEmail, f.Email},
		{FieldAttendance, f.Attendance},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// ValidationError lists the required fields a submission is missing
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Submission is a validated RSVP with its attendance normalized.
// It is passed by value and never mutated after construction.
type Submission struct {
	ID         string
	Name       string
	Kana       string
	Email      string
	Attendance Attendance
	Allergy    string
	Message    string
}

// NewSubmission validates the form and builds a Submission from it
func NewSubmission(f Form) (Submission, error) {
	if missing := MissingFields(f); len(missing) > 0 {
		return Submission{}, &ValidationError{Missing: missing}
	}

	return Submission{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(f.Name),
		Kana:       strings.TrimSpace(f.Kana),
		Email:      strings.TrimSpace(f.Email),
		Attendance: NormalizeAttendance(f.Attendance),
		Allergy:    strings.TrimSpace(f.Allergy),
		Message:    strings.TrimSpace(f.Message),
	}, nil
}
