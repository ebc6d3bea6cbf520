package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/staging"
)

// MockPrompter is a test double for the Prompter interface that replays
// a scripted sequence of review decisions and records everything it was
// shown.
type MockPrompter struct {
	decisions []ReviewDecision
	snapshots []model.Batch
	results   []CommitResult
	messages  []string
	next      int
	mu        sync.Mutex
}

// NewMockPrompter creates a prompter that will return the given
// decisions in order.
func NewMockPrompter(decisions ...ReviewDecision) *MockPrompter {
	return &MockPrompter{decisions: decisions}
}

// ReviewBatch implements the Prompter interface.
func (m *MockPrompter) ReviewBatch(_ context.Context, batch model.Batch, _ staging.Counts) (ReviewDecision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = append(m.snapshots, batch)

	if m.next >= len(m.decisions) {
		return ReviewDecision{}, fmt.Errorf("mock prompter: out of scripted decisions after %d", m.next)
	}
	decision := m.decisions[m.next]
	m.next++
	return decision, nil
}

// ShowCommitResult implements the Prompter interface.
func (m *MockPrompter) ShowCommitResult(result CommitResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

// ShowMessage implements the Prompter interface.
func (m *MockPrompter) ShowMessage(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// Snapshots returns every batch snapshot the prompter was shown.
func (m *MockPrompter) Snapshots() []model.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Batch{}, m.snapshots...)
}

// Results returns every commit result the prompter was shown.
func (m *MockPrompter) Results() []CommitResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CommitResult{}, m.results...)
}

// Messages returns every informational message shown.
func (m *MockPrompter) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.messages...)
}
