// Package staging holds parsed voice commands between parse and commit.
// A Store owns at most one Batch at a time and enforces the legal status
// transitions for each candidate in it.
package staging

import (
	"fmt"
	"time"

	"github.com/rosterflow/rosterflow/internal/model"
)

// StateError reports an illegal transition request. It signals a bug in
// the caller, not a recoverable condition.
type StateError struct {
	Op   string
	ID   string
	From model.CandidateStatus
}

func (e *StateError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("staging: %s: no active batch", e.Op)
	}
	if e.From == "" {
		return fmt.Sprintf("staging: %s: no candidate %q in batch", e.Op, e.ID)
	}
	return fmt.Sprintf("staging: %s: candidate %q is %s", e.Op, e.ID, e.From)
}

// ErrEmptyBatch is returned by Begin when the parse produced nothing
// reviewable; the store never opens a review session over zero candidates.
var ErrEmptyBatch = fmt.Errorf("staging: nothing reviewable in parse result")

// Counts summarizes candidate statuses for display.
type Counts struct {
	Pending   int
	Editing   int
	Confirmed int
	Rejected  int
}

// Total returns the number of candidates in the batch.
func (c Counts) Total() int {
	return c.Pending + c.Editing + c.Confirmed + c.Rejected
}

// Store holds the current batch. It is not safe for concurrent use; all
// transitions are synchronous calls on one goroutine.
type Store struct {
	batch *model.Batch
}

// NewStore creates an empty staging store.
func NewStore() *Store {
	return &Store{}
}

// Begin opens a new batch from a parse result, discarding any uncommitted
// batch. Proposals must be non-empty; callers apply the confidence cutoff
// before construction.
func (s *Store) Begin(transcript string, globalWarnings []string, proposals []model.Proposal) error {
	if len(proposals) == 0 {
		return ErrEmptyBatch
	}

	candidates := make([]model.Candidate, 0, len(proposals))
	for _, p := range proposals {
		candidates = append(candidates, model.NewCandidate(p))
	}

	s.batch = &model.Batch{
		CreatedAt:      time.Now(),
		Transcript:     transcript,
		GlobalWarnings: globalWarnings,
		Candidates:     candidates,
	}
	return nil
}

// Active reports whether a batch is open.
func (s *Store) Active() bool {
	return s.batch != nil
}

// Snapshot returns a copy of the current batch for rendering. The copy's
// candidate slice is independent, so callers cannot bypass transitions.
func (s *Store) Snapshot() (model.Batch, bool) {
	if s.batch == nil {
		return model.Batch{}, false
	}
	snap := *s.batch
	snap.Candidates = make([]model.Candidate, len(s.batch.Candidates))
	copy(snap.Candidates, s.batch.Candidates)
	return snap, true
}

// Counts returns derived status counts for the current batch.
func (s *Store) Counts() Counts {
	var counts Counts
	if s.batch == nil {
		return counts
	}
	for _, c := range s.batch.Candidates {
		switch c.Status {
		case model.StatusPending:
			counts.Pending++
		case model.StatusEditing:
			counts.Editing++
		case model.StatusConfirmed:
			counts.Confirmed++
		case model.StatusRejected:
			counts.Rejected++
		}
	}
	return counts
}

// Confirm transitions a pending candidate to confirmed.
func (s *Store) Confirm(id string) error {
	c, err := s.find("confirm", id)
	if err != nil {
		return err
	}
	if c.Status != model.StatusPending {
		return &StateError{Op: "confirm", ID: id, From: c.Status}
	}
	c.Status = model.StatusConfirmed
	return nil
}

// Reject transitions a pending candidate to rejected. The candidate stays
// in the batch so numbering and counts remain stable.
func (s *Store) Reject(id string) error {
	c, err := s.find("reject", id)
	if err != nil {
		return err
	}
	if c.Status != model.StatusPending {
		return &StateError{Op: "reject", ID: id, From: c.Status}
	}
	c.Status = model.StatusRejected
	return nil
}

// StartEdit transitions a pending candidate to editing. The payload is
// untouched until SaveEdit.
func (s *Store) StartEdit(id string) error {
	c, err := s.find("startEdit", id)
	if err != nil {
		return err
	}
	if c.Status != model.StatusPending {
		return &StateError{Op: "startEdit", ID: id, From: c.Status}
	}
	c.Status = model.StatusEditing
	return nil
}

// SaveEdit replaces an editing candidate's payload and returns it to
// pending. Editing does not auto-confirm; the candidate re-enters the
// review pool. The new payload must keep the candidate's kind.
func (s *Store) SaveEdit(id string, payload model.CommandPayload) error {
	c, err := s.find("saveEdit", id)
	if err != nil {
		return err
	}
	if c.Status != model.StatusEditing {
		return &StateError{Op: "saveEdit", ID: id, From: c.Status}
	}
	if payload == nil || payload.CommandKind() != c.Kind {
		return fmt.Errorf("staging: saveEdit: payload kind mismatch for candidate %q", id)
	}
	c.Payload = payload
	c.Status = model.StatusPending
	return nil
}

// CancelEdit abandons an in-progress edit, restoring pending with the
// prior payload.
func (s *Store) CancelEdit(id string) error {
	c, err := s.find("cancelEdit", id)
	if err != nil {
		return err
	}
	if c.Status != model.StatusEditing {
		return &StateError{Op: "cancelEdit", ID: id, From: c.Status}
	}
	c.Status = model.StatusPending
	return nil
}

// ConfirmAllPending confirms every pending candidate. Rejected and
// editing candidates are left untouched; an editing candidate must be
// resolved first. Idempotent.
func (s *Store) ConfirmAllPending() error {
	if s.batch == nil {
		return &StateError{Op: "confirmAllPending"}
	}
	for i := range s.batch.Candidates {
		if s.batch.Candidates[i].Status == model.StatusPending {
			s.batch.Candidates[i].Status = model.StatusConfirmed
		}
	}
	return nil
}

// Clear discards the batch entirely with no persistence side effects for
// any candidate, confirmed or not. Callers must not clear while a commit
// for this batch is in flight.
func (s *Store) Clear() error {
	if s.batch == nil {
		return &StateError{Op: "clearBatch"}
	}
	s.batch = nil
	return nil
}

// Batch exposes the owned batch to the commit path. Callers other than
// the committer should use Snapshot.
func (s *Store) Batch() *model.Batch {
	return s.batch
}

func (s *Store) find(op, id string) (*model.Candidate, error) {
	if s.batch == nil {
		return nil, &StateError{Op: op}
	}
	c := s.batch.Find(id)
	if c == nil {
		return nil, &StateError{Op: op, ID: id}
	}
	return c, nil
}
