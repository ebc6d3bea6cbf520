package model

import (
	"errors"
	"fmt"
	"strings"
)

// CommandKind identifies what domain entity a candidate would create or
// how it would mutate the schedule.
type CommandKind string

// Command kind constants.
const (
	KindCreateRule    CommandKind = "create_rule"
	KindCreateStaff   CommandKind = "create_staff"
	KindMoveSession   CommandKind = "move_session"
	KindCancelSession CommandKind = "cancel_session"
)

// KnownKinds lists every kind the commit dispatch understands.
var KnownKinds = []CommandKind{KindCreateRule, KindCreateStaff, KindMoveSession, KindCancelSession}

// IsKnownKind reports whether k maps to a persistence operation.
func IsKnownKind(k CommandKind) bool {
	for _, known := range KnownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// CommandPayload is the kind-specific structured content of a candidate.
// The concrete type is determined by CommandKind, so commit dispatch can
// switch exhaustively.
type CommandPayload interface {
	CommandKind() CommandKind
	Validate() error
	Summary() string
}

// RulePayload proposes a new scheduling rule.
type RulePayload struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// CommandKind implements CommandPayload.
func (p RulePayload) CommandKind() CommandKind { return KindCreateRule }

// Validate implements CommandPayload.
func (p RulePayload) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("rule description is required")
	}
	if p.Priority < 0 || p.Priority > 100 {
		return fmt.Errorf("rule priority must be 0-100, got %d", p.Priority)
	}
	return nil
}

// Summary implements CommandPayload.
func (p RulePayload) Summary() string {
	category := p.Category
	if category == "" {
		category = "general"
	}
	return fmt.Sprintf("rule [%s, priority %d]: %s", category, p.Priority, p.Description)
}

// StaffPayload proposes a new staff member.
type StaffPayload struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	WeeklyHours int    `json:"weekly_hours"`
}

// CommandKind implements CommandPayload.
func (p StaffPayload) CommandKind() CommandKind { return KindCreateStaff }

// Validate implements CommandPayload.
func (p StaffPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("staff name is required")
	}
	if p.WeeklyHours < 0 || p.WeeklyHours > 80 {
		return fmt.Errorf("weekly hours must be 0-80, got %d", p.WeeklyHours)
	}
	return nil
}

// Summary implements CommandPayload.
func (p StaffPayload) Summary() string {
	role := p.Role
	if role == "" {
		role = "staff"
	}
	return fmt.Sprintf("add %s as %s, %dh/week", p.Name, role, p.WeeklyHours)
}

// MoveSessionPayload proposes rescheduling an existing session, located
// by staff name plus its current day and start time.
type MoveSessionPayload struct {
	Staff     string `json:"staff"`
	FromDay   string `json:"from_day"`
	FromStart string `json:"from_start"`
	ToDay     string `json:"to_day"`
	ToStart   string `json:"to_start"`
}

// CommandKind implements CommandPayload.
func (p MoveSessionPayload) CommandKind() CommandKind { return KindMoveSession }

// Validate implements CommandPayload.
func (p MoveSessionPayload) Validate() error {
	if strings.TrimSpace(p.Staff) == "" {
		return errors.New("staff name is required")
	}
	if p.FromDay == "" || p.FromStart == "" {
		return errors.New("current day and start time are required")
	}
	if p.ToDay == "" && p.ToStart == "" {
		return errors.New("a new day or start time is required")
	}
	return nil
}

// Summary implements CommandPayload.
func (p MoveSessionPayload) Summary() string {
	toDay := p.ToDay
	if toDay == "" {
		toDay = p.FromDay
	}
	toStart := p.ToStart
	if toStart == "" {
		toStart = p.FromStart
	}
	return fmt.Sprintf("move %s's %s %s session to %s %s", p.Staff, p.FromDay, p.FromStart, toDay, toStart)
}

// CancelSessionPayload proposes cancelling an existing session.
type CancelSessionPayload struct {
	Staff  string `json:"staff"`
	Day    string `json:"day"`
	Start  string `json:"start"`
	Reason string `json:"reason"`
}

// CommandKind implements CommandPayload.
func (p CancelSessionPayload) CommandKind() CommandKind { return KindCancelSession }

// Validate implements CommandPayload.
func (p CancelSessionPayload) Validate() error {
	if strings.TrimSpace(p.Staff) == "" {
		return errors.New("staff name is required")
	}
	if p.Day == "" || p.Start == "" {
		return errors.New("day and start time are required")
	}
	return nil
}

// Summary implements CommandPayload.
func (p CancelSessionPayload) Summary() string {
	s := fmt.Sprintf("cancel %s's %s %s session", p.Staff, p.Day, p.Start)
	if p.Reason != "" {
		s += " (" + p.Reason + ")"
	}
	return s
}
