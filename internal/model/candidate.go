// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// CandidateStatus tracks where a parsed command sits in the review lifecycle.
type CandidateStatus string

// Candidate status constants.
const (
	StatusPending   CandidateStatus = "PENDING"
	StatusEditing   CandidateStatus = "EDITING"
	StatusConfirmed CandidateStatus = "CONFIRMED"
	StatusRejected  CandidateStatus = "REJECTED"
)

// Candidate is a single parsed, not-yet-persisted proposed change.
// Confidence and Warnings are fixed at parse time; Payload changes only
// through the staging store's edit transitions.
type Candidate struct {
	ID         string
	Kind       CommandKind
	Payload    CommandPayload
	Confidence float64
	Warnings   []string
	Status     CandidateStatus
}

// Proposal is one parsed command as handed to the staging store, before
// it has an identity or a status.
type Proposal struct {
	Kind       CommandKind
	Payload    CommandPayload
	Confidence float64
	Warnings   []string
}

// NewCandidate wraps a proposal into a reviewable candidate.
func NewCandidate(p Proposal) Candidate {
	return Candidate{
		ID:         uuid.NewString(),
		Kind:       p.Kind,
		Payload:    p.Payload,
		Confidence: p.Confidence,
		Warnings:   p.Warnings,
		Status:     StatusPending,
	}
}

// Batch is the set of candidates produced by one parse call, plus
// batch-level metadata. Candidate order is the parser's return order and
// is stable across status transitions.
type Batch struct {
	CreatedAt      time.Time
	Transcript     string
	GlobalWarnings []string
	Candidates     []Candidate
}

// Find returns a pointer to the candidate with the given id, or nil.
func (b *Batch) Find(id string) *Candidate {
	for i := range b.Candidates {
		if b.Candidates[i].ID == id {
			return &b.Candidates[i]
		}
	}
	return nil
}

// Confirmed returns the confirmed candidates in batch order.
func (b *Batch) Confirmed() []Candidate {
	var out []Candidate
	for _, c := range b.Candidates {
		if c.Status == StatusConfirmed {
			out = append(out, c)
		}
	}
	return out
}
