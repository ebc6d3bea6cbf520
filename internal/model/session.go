package model

import "time"

// SessionStatus indicates whether a scheduled session still stands.
type SessionStatus string

// Session status constants.
const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// Session is a persisted block of scheduled work for one staff member.
// Day is a weekday name and Start a 24h clock time ("tuesday", "09:00");
// the parser normalizes utterances into this form.
type Session struct {
	CreatedAt time.Time
	Staff     string
	Room      string
	Day       string
	Start     string
	End       string
	Status    SessionStatus
	Notes     string
	ID        int64
}
