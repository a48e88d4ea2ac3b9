package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of clock action recorded in the ledger
type EventType string

const (
	EventTimeIn  EventType = "TIME_IN"
	EventTimeOut EventType = "TIME_OUT"
)

func (t EventType) Valid() bool {
	return t == EventTimeIn || t == EventTimeOut
}

// ClockState is derived from the latest event of the current day, never stored
type ClockState string

const (
	StateNotClockedIn ClockState = "NOT_CLOCKED_IN"
	StateClockedIn    ClockState = "CLOCKED_IN"
	StateClockedOut   ClockState = "CLOCKED_OUT"
)

// AttendanceEvent is an immutable ledger entry
type AttendanceEvent struct {
	ID              uuid.UUID `json:"id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	Timestamp       time.Time `json:"timestamp"`
	Type            EventType `json:"type"`
	Verified        bool      `json:"verified"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	Notes           *string   `json:"notes,omitempty"`

	// Seq is the storage append order, used to break timestamp ties
	Seq int64 `json:"-"`
}

// StateFromLatest maps today's latest event onto the derived clock state
func StateFromLatest(latest *AttendanceEvent) ClockState {
	if latest == nil {
		return StateNotClockedIn
	}
	if latest.Type == EventTimeIn {
		return StateClockedIn
	}
	return StateClockedOut
}

// DayWindow returns [start, end) of the local day containing t in loc
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}
