// Package engine implements the staged confirmation flow for dictated
// scheduling commands: parse, review, commit.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rosterflow/rosterflow/internal/common"
	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/parser"
	"github.com/rosterflow/rosterflow/internal/service"
	"github.com/rosterflow/rosterflow/internal/staging"
)

// Engine orchestrates one dictation round: it parses the transcript,
// stages candidates for review, drives the prompter, and commits the
// confirmed subset.
type Engine struct {
	storage       service.Storage
	parser        Parser
	prompter      Prompter
	store         *staging.Store
	committer     *Committer
	minConfidence float64
	autoAccept    bool
}

// Config holds configuration options for the engine.
type Config struct {
	// MinConfidence is the cutoff below which a parsed item is dropped
	// before review. Applied per candidate, before the batch is built.
	MinConfidence float64
	// AutoAccept confirms every staged candidate and commits without
	// interaction.
	AutoAccept bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.5,
	}
}

// New creates an engine with the given dependencies.
func New(storage service.Storage, p Parser, prompter Prompter) *Engine {
	return NewWithConfig(storage, p, prompter, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(storage service.Storage, p Parser, prompter Prompter, config Config) *Engine {
	if config.MinConfidence <= 0 {
		config.MinConfidence = DefaultConfig().MinConfidence
	}
	return &Engine{
		storage:       storage,
		parser:        p,
		prompter:      prompter,
		store:         staging.NewStore(),
		committer:     NewCommitter(storage),
		minConfidence: config.MinConfidence,
		autoAccept:    config.AutoAccept,
	}
}

// Store exposes the staging store; the CLI reads snapshots from it.
func (e *Engine) Store() *staging.Store {
	return e.store
}

// OnCommitProgress registers a progress callback for commit passes.
func (e *Engine) OnCommitProgress(fn func(done, total int)) {
	e.committer.OnProgress(fn)
}

// Dictate runs one full dictation round for a transcript. It returns
// common.ErrUnrecognized when nothing parseable clears the confidence
// cutoff, and a *parser.ParseError when the parser itself fails; in
// neither case is a batch created.
func (e *Engine) Dictate(ctx context.Context, transcript string, domain parser.Domain) error {
	resp, err := e.parser.Parse(ctx, parser.Request{Transcript: transcript, Domain: domain})
	if err != nil {
		return err
	}

	proposals, dropWarnings := parser.DecodeItems(resp.Items)

	kept := make([]model.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.Confidence < e.minConfidence {
			slog.Info("dropping low-confidence item",
				"kind", p.Kind,
				"confidence", p.Confidence,
				"cutoff", e.minConfidence)
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return fmt.Errorf("%w: nothing in %q cleared the %.2f confidence cutoff",
			common.ErrUnrecognized, transcript, e.minConfidence)
	}

	globalWarnings := append(append([]string{}, resp.GlobalWarnings...), dropWarnings...)
	if err := e.store.Begin(transcript, globalWarnings, kept); err != nil {
		return err
	}

	slog.Info("staged batch for review",
		"transcript", transcript,
		"candidates", len(kept),
		"global_warnings", len(globalWarnings))

	if e.autoAccept {
		return e.autoCommit(ctx)
	}
	return e.review(ctx)
}

// review drives the prompter until the batch is committed or cancelled.
func (e *Engine) review(ctx context.Context) error {
	succeeded := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		snapshot, ok := e.store.Snapshot()
		if !ok {
			return fmt.Errorf("review loop without an active batch")
		}

		decision, err := e.prompter.ReviewBatch(ctx, snapshot, e.store.Counts())
		if err != nil {
			return err
		}

		switch decision.Action {
		case ActionConfirm:
			if err := e.store.Confirm(decision.CandidateID); err != nil {
				return err
			}
		case ActionReject:
			if err := e.store.Reject(decision.CandidateID); err != nil {
				return err
			}
		case ActionEdit:
			if err := e.applyEdit(decision); err != nil {
				return err
			}
		case ActionConfirmAll:
			if err := e.store.ConfirmAllPending(); err != nil {
				return err
			}
		case ActionCommit:
			counts := e.store.Counts()
			if counts.Confirmed-len(succeeded) == 0 {
				e.prompter.ShowMessage("Nothing confirmed to apply.")
				continue
			}

			result := e.committer.Commit(ctx, e.store.Batch(), succeeded)
			for _, c := range result.Succeeded {
				succeeded[c.ID] = true
			}
			e.prompter.ShowCommitResult(result)

			if len(result.Failed) == 0 && e.store.Counts().Pending == 0 && e.store.Counts().Editing == 0 {
				// All reviewable work is done.
				return e.store.Clear()
			}
			// Failed candidates stay confirmed and visible for retry;
			// the batch is not auto-cleared.
		case ActionCancelAll:
			return e.store.Clear()
		default:
			return fmt.Errorf("unknown review action %q", decision.Action)
		}
	}
}

// applyEdit runs the startEdit/saveEdit/cancelEdit transition trio for
// one prompter edit decision.
func (e *Engine) applyEdit(decision ReviewDecision) error {
	if err := e.store.StartEdit(decision.CandidateID); err != nil {
		return err
	}
	if decision.Payload == nil {
		return e.store.CancelEdit(decision.CandidateID)
	}
	return e.store.SaveEdit(decision.CandidateID, decision.Payload)
}

// autoCommit confirms everything and commits in one pass.
func (e *Engine) autoCommit(ctx context.Context) error {
	if err := e.store.ConfirmAllPending(); err != nil {
		return err
	}

	result := e.committer.Commit(ctx, e.store.Batch(), nil)
	e.prompter.ShowCommitResult(result)

	if len(result.Failed) > 0 {
		// Leave the batch intact so a caller can inspect what failed.
		return common.NewUserError(
			fmt.Sprintf("%d of %d commands failed to apply", len(result.Failed), result.Attempted()), nil)
	}
	return e.store.Clear()
}
