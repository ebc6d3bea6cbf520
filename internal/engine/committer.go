package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/service"
)

// CommitFailure pairs a candidate with the error its persistence call
// produced.
type CommitFailure struct {
	Err       error
	Candidate model.Candidate
}

// CommitResult is the consolidated outcome of one commit pass.
type CommitResult struct {
	Succeeded []model.Candidate
	Failed    []CommitFailure
}

// Attempted returns how many candidates were submitted.
func (r CommitResult) Attempted() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Committer persists confirmed candidates one at a time, in batch order,
// isolating each candidate's failure from its siblings.
type Committer struct {
	storage    service.Storage
	onProgress func(done, total int)
}

// NewCommitter creates a committer over the given storage.
func NewCommitter(storage service.Storage) *Committer {
	return &Committer{storage: storage}
}

// OnProgress registers a callback invoked after each candidate attempt.
func (c *Committer) OnProgress(fn func(done, total int)) {
	c.onProgress = fn
}

// Commit submits every confirmed candidate in the batch, skipping ids in
// exclude (candidates that already succeeded in an earlier pass).
// Submission is strictly sequential in batch order; a failure records the
// candidate and error and moves on. Candidate statuses are never changed
// here: a failed candidate stays confirmed so the caller can retry it.
// An empty selection returns an empty result with no side effects.
func (c *Committer) Commit(ctx context.Context, batch *model.Batch, exclude map[string]bool) CommitResult {
	var result CommitResult
	if batch == nil {
		return result
	}

	var selected []model.Candidate
	for _, candidate := range batch.Candidates {
		if candidate.Status != model.StatusConfirmed {
			continue
		}
		if exclude[candidate.ID] {
			continue
		}
		selected = append(selected, candidate)
	}

	for i, candidate := range selected {
		err := c.apply(ctx, candidate)
		if err != nil {
			slog.Warn("candidate failed to apply",
				"candidate_id", candidate.ID,
				"kind", candidate.Kind,
				"error", err)
			result.Failed = append(result.Failed, CommitFailure{Candidate: candidate, Err: err})
		} else {
			result.Succeeded = append(result.Succeeded, candidate)
			c.audit(ctx, batch.Transcript, candidate)
		}

		if c.onProgress != nil {
			c.onProgress(i+1, len(selected))
		}
	}

	slog.Info("commit pass complete",
		"attempted", result.Attempted(),
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))

	return result
}

// apply dispatches one candidate to the persistence call for its kind.
func (c *Committer) apply(ctx context.Context, candidate model.Candidate) error {
	switch payload := candidate.Payload.(type) {
	case model.RulePayload:
		_, err := c.storage.CreateRule(ctx, payload)
		return err
	case model.StaffPayload:
		_, err := c.storage.CreateStaff(ctx, payload)
		return err
	case model.MoveSessionPayload:
		_, err := c.storage.MoveSession(ctx, payload)
		return err
	case model.CancelSessionPayload:
		_, err := c.storage.CancelSession(ctx, payload)
		return err
	default:
		return fmt.Errorf("no persistence operation for kind %q", candidate.Kind)
	}
}

// audit records an applied command, best effort.
func (c *Committer) audit(ctx context.Context, transcript string, candidate model.Candidate) {
	payloadJSON, err := json.Marshal(candidate.Payload)
	if err != nil {
		slog.Warn("failed to encode payload for audit", "candidate_id", candidate.ID, "error", err)
		return
	}

	entry := service.CommandLogEntry{
		AppliedAt:   time.Now(),
		CandidateID: candidate.ID,
		Kind:        candidate.Kind,
		Transcript:  transcript,
		PayloadJSON: string(payloadJSON),
	}
	if err := c.storage.RecordCommand(ctx, &entry); err != nil {
		slog.Warn("failed to record command audit entry", "candidate_id", candidate.ID, "error", err)
	}
}
