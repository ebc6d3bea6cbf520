package model

import "time"

// Rule is a persisted scheduling constraint evaluated by the roster
// builder (e.g. "no one works two closing shifts in a row").
type Rule struct {
	CreatedAt   time.Time
	Category    string
	Description string
	ID          int64
	Priority    int
	Active      bool
}
