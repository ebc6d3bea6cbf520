package storage

import (
	"context"
	"fmt"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/service"
)

// RecordCommand appends one applied command to the audit log.
func (s *SQLiteStorage) RecordCommand(ctx context.Context, entry *service.CommandLogEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.CandidateID == "" || entry.Kind == "" {
		return NewValidationError("command_log", "candidate id and kind are required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO command_log (candidate_id, kind, transcript, payload)
		VALUES (?, ?, ?, ?)`,
		entry.CandidateID, string(entry.Kind), entry.Transcript, entry.PayloadJSON)
	if err != nil {
		return fmt.Errorf("failed to insert command log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get command log id: %w", err)
	}
	entry.ID = id
	return nil
}

// GetCommandLog returns the most recently applied commands, newest first.
func (s *SQLiteStorage) GetCommandLog(ctx context.Context, limit int) ([]service.CommandLogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id, kind, transcript, payload, applied_at
		FROM command_log
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query command log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []service.CommandLogEntry
	for rows.Next() {
		var entry service.CommandLogEntry
		var kind string
		if err := rows.Scan(&entry.ID, &entry.CandidateID, &kind, &entry.Transcript, &entry.PayloadJSON, &entry.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan command log entry: %w", err)
		}
		entry.Kind = model.CommandKind(kind)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating command log: %w", err)
	}
	return entries, nil
}
