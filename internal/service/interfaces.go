// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/rosterflow/rosterflow/internal/model"
)

// SessionFilter defines filtering options for session queries.
type SessionFilter struct {
	Staff         string
	Day           string
	IncludeCancel bool
	Limit         int
}

// CommandLogEntry records one applied voice command for auditing.
type CommandLogEntry struct {
	AppliedAt   time.Time
	CandidateID string
	Kind        model.CommandKind
	Transcript  string
	PayloadJSON string
	ID          int64
}

// Storage defines the contract for our persistence layer. Create and
// mutate operations return a wrapped *storage.ValidationError when the
// payload is rejected, so commit failures can be surfaced per candidate.
type Storage interface {
	// Rule operations
	CreateRule(ctx context.Context, payload model.RulePayload) (*model.Rule, error)
	GetRules(ctx context.Context) ([]model.Rule, error)
	GetRulesByCategory(ctx context.Context, category string) ([]model.Rule, error)
	DeleteRule(ctx context.Context, id int64) error

	// Staff operations
	CreateStaff(ctx context.Context, payload model.StaffPayload) (*model.StaffMember, error)
	GetStaff(ctx context.Context) ([]model.StaffMember, error)
	GetStaffByName(ctx context.Context, name string) (*model.StaffMember, error)

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) (*model.Session, error)
	GetSessions(ctx context.Context, filter SessionFilter) ([]model.Session, error)
	MoveSession(ctx context.Context, payload model.MoveSessionPayload) (*model.Session, error)
	CancelSession(ctx context.Context, payload model.CancelSessionPayload) (*model.Session, error)

	// Command audit log
	RecordCommand(ctx context.Context, entry *CommandLogEntry) error
	GetCommandLog(ctx context.Context, limit int) ([]CommandLogEntry, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
