package engine

import (
	"context"
	"sync"

	"github.com/rosterflow/rosterflow/internal/parser"
)

// MockParser is a test double for the Parser interface with scripted
// responses.
type MockParser struct {
	response  parser.Response
	err       error
	requests  []parser.Request
	callCount int
	mu        sync.Mutex
}

// NewMockParser creates a mock parser returning the given response.
func NewMockParser(response parser.Response) *MockParser {
	return &MockParser{response: response}
}

// NewMockParserError creates a mock parser that always fails.
func NewMockParserError(err error) *MockParser {
	return &MockParser{err: err}
}

// Parse implements the Parser interface.
func (m *MockParser) Parse(_ context.Context, req parser.Request) (parser.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.requests = append(m.requests, req)

	if m.err != nil {
		return parser.Response{}, m.err
	}
	return m.response, nil
}

// CallCount returns how many times Parse was invoked.
func (m *MockParser) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns the recorded parse requests.
func (m *MockParser) Requests() []parser.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]parser.Request{}, m.requests...)
}
