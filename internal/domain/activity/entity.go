// internal/domain/activity/entity.go
package activity

import (
	"database/sql"
	"time"
)

// Type is the kind of logged interaction.
type Type string

const (
	TypeCall    Type = "call"
	TypeEmail   Type = "email"
	TypeMeeting Type = "meeting"
	TypeNote    Type = "note"
)

// ParseType validates membership in the closed activity type set.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeCall, TypeEmail, TypeMeeting, TypeNote:
		return Type(s), true
	default:
		return "", false
	}
}

// HasOutcome reports whether an outcome is meaningful for this type. Only
// calls and meetings carry one.
func (t Type) HasOutcome() bool {
	switch t {
	case TypeCall, TypeMeeting:
		return true
	case TypeEmail, TypeNote:
		return false
	default:
		return false
	}
}

// Activity is one immutable log entry scoped to exactly one lead. The log is
// append-only: there is no update or delete, and entries remain addressable by
// lead id even after the lead record is gone.
type Activity struct {
	ID          string         `json:"id" db:"id"`
	LeadID      string         `json:"lead_id" db:"lead_id"`
	Type        Type           `json:"activity_type" db:"activity_type"`
	Subject     string         `json:"subject" db:"subject"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Outcome     sql.NullString `json:"outcome,omitempty" db:"outcome"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
