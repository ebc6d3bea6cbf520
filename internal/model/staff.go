package model

import "time"

// StaffMember is a persisted schedulable person.
type StaffMember struct {
	CreatedAt   time.Time
	Name        string
	Role        string
	ID          int64
	WeeklyHours int
}
