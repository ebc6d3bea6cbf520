package parser

import (
	"context"
	"encoding/json"
	"fmt"
)

// Domain selects which page of the admin console a transcript is about,
// so the same endpoint can return differently-shaped payloads.
type Domain string

// Parse domains.
const (
	DomainRules    Domain = "rules"
	DomainStaff    Domain = "staff"
	DomainSchedule Domain = "schedule"
)

// Request is one transcript to parse.
type Request struct {
	Transcript string
	Domain     Domain
}

// Item is a single raw parse result. Payload stays as JSON until it is
// decoded against the item's kind.
type Item struct {
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Confidence float64         `json:"confidence"`
	Warnings   []string        `json:"warnings"`
}

// Response is the provider's full answer for one transcript.
type Response struct {
	Items          []Item   `json:"items"`
	GlobalWarnings []string `json:"global_warnings"`
}

// Client defines the interface for parse providers.
type Client interface {
	Parse(ctx context.Context, req Request) (Response, error)
}

// ParseError indicates the parser was unavailable or returned nothing
// usable. No batch is created from one; the caller shows a retry prompt.
type ParseError struct {
	Err     error
	Message string
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("parse failed: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
