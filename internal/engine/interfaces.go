package engine

import (
	"context"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/parser"
	"github.com/rosterflow/rosterflow/internal/staging"
)

// Parser defines the contract for turning a transcript into raw parse
// items.
type Parser interface {
	Parse(ctx context.Context, req parser.Request) (parser.Response, error)
}

// ReviewAction is one user decision during batch review.
type ReviewAction string

// Review actions.
const (
	ActionConfirm    ReviewAction = "confirm"
	ActionReject     ReviewAction = "reject"
	ActionEdit       ReviewAction = "edit"
	ActionConfirmAll ReviewAction = "confirm_all"
	ActionCommit     ReviewAction = "commit"
	ActionCancelAll  ReviewAction = "cancel_all"
)

// ReviewDecision carries one action out of the prompter. CandidateID is
// set for per-candidate actions. For ActionEdit, a nil Payload means the
// edit was abandoned; a non-nil Payload replaces the candidate's payload.
type ReviewDecision struct {
	Payload     model.CommandPayload
	Action      ReviewAction
	CandidateID string
}

// Prompter defines the contract for user interaction during batch review.
type Prompter interface {
	ReviewBatch(ctx context.Context, batch model.Batch, counts staging.Counts) (ReviewDecision, error)
	ShowCommitResult(result CommitResult)
	ShowMessage(msg string)
}
