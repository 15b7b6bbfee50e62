package models

import (
	"slices"
	"strings"
)

// Attendance is the canonical attendance answer of a submission
type Attendance int

const (
	Unspecified Attendance = iota
	Attending
	NotAttending
)

// Native-language literals as sent by the invitation page
const (
	literalAttend       = "出席"
	literalAttendPolite = "ご出席"
	literalAbsent       = "欠席"
	literalAbsentPolite = "ご欠席"
)

var attendTokens = []string{
	"attend", "attending", "present", "yes", "true",
	literalAttend, literalAttendPolite, "参加",
}

var absentTokens = []string{
	"absent", "not attending", "no", "false",
	literalAbsent, literalAbsentPolite, "不参加",
}

// NormalizeAttendance maps any raw attendance value to its canonical form.
// It never fails: unknown and empty values are Unspecified.
func NormalizeAttendance(raw string) Attendance {
	if raw == "" {
		return Unspecified
	}

	token := strings.ToLower(strings.TrimSpace(raw))
	if slices.Contains(attendTokens, token) {
		return Attending
	}
	if slices.Contains(absentTokens, token) {
		return NotAttending
	}

	// Exact literals, in case lowercasing altered a native-script value
	switch raw {
	case literalAttend, literalAttendPolite:
		return Attending
	case literalAbsent, literalAbsentPolite:
		return NotAttending
	}

	return Unspecified
}

// Label returns the text written to the record store and the notification
func (a Attendance) Label() string {
	switch a {
	case Attending:
		return literalAttendPolite
	case NotAttending:
		return literalAbsentPolite
	default:
		return "未選択"
	}
}

// String returns a stable ASCII name, used in logs and CLI filters
func (a Attendance) String() string {
	switch a {
	case Attending:
		return "attending"
	case NotAttending:
		return "not-attending"
	default:
		return "unspecified"
	}
}

// ParseAttendanceName is the inverse of String
func ParseAttendanceName(name string) (Attendance, bool) {
	for _, a := range []Attendance{Attending, NotAttending, Unspecified} {
		if a.String() == name {
			return a, true
		}
	}
	return Unspecified, false
}
