package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/service"
)

// CreateSession persists a new scheduled session.
func (s *SQLiteStorage) CreateSession(ctx context.Context, session *model.Session) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session", ErrNilParameter)
	}
	if session.Staff == "" || session.Day == "" || session.Start == "" {
		return nil, NewValidationError("session", "staff, day, and start time are required")
	}

	status := session.Status
	if status == "" {
		status = model.SessionScheduled
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (staff, room, day, start_time, end_time, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.Staff, session.Room, normalizeDay(session.Day), session.Start, session.End, status, session.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get session id: %w", err)
	}

	return s.getSession(ctx, id)
}

// GetSessions returns sessions matching the filter, ordered by day and
// start time.
func (s *SQLiteStorage) GetSessions(ctx context.Context, filter service.SessionFilter) ([]model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, staff, room, day, start_time, end_time, status, notes, created_at
		FROM sessions
		WHERE 1=1`
	var args []any

	if !filter.IncludeCancel {
		query += ` AND status != ?`
		args = append(args, string(model.SessionCancelled))
	}
	if filter.Staff != "" {
		query += ` AND staff = ? COLLATE NOCASE`
		args = append(args, filter.Staff)
	}
	if filter.Day != "" {
		query += ` AND day = ?`
		args = append(args, normalizeDay(filter.Day))
	}
	query += ` ORDER BY day, start_time`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// MoveSession reschedules the session matching the payload's staff, day,
// and start time. No match or more than one match is a validation error.
func (s *SQLiteStorage) MoveSession(ctx context.Context, payload model.MoveSessionPayload) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, NewValidationError("move_session", err.Error())
	}

	session, err := s.findSession(ctx, payload.Staff, payload.FromDay, payload.FromStart)
	if err != nil {
		return nil, err
	}

	toDay := payload.ToDay
	if toDay == "" {
		toDay = session.Day
	}
	toStart := payload.ToStart
	if toStart == "" {
		toStart = session.Start
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET day = ?, start_time = ?, end_time = NULL WHERE id = ?`,
		normalizeDay(toDay), toStart, session.ID); err != nil {
		return nil, fmt.Errorf("failed to move session: %w", err)
	}

	slog.Debug("moved session", "id", session.ID, "to_day", toDay, "to_start", toStart)
	return s.getSession(ctx, session.ID)
}

// CancelSession cancels the session matching the payload's staff, day,
// and start time. The row is kept with status CANCELLED.
func (s *SQLiteStorage) CancelSession(ctx context.Context, payload model.CancelSessionPayload) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, NewValidationError("cancel_session", err.Error())
	}

	session, err := s.findSession(ctx, payload.Staff, payload.Day, payload.Start)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, notes = ? WHERE id = ?`,
		string(model.SessionCancelled), payload.Reason, session.ID); err != nil {
		return nil, fmt.Errorf("failed to cancel session: %w", err)
	}

	slog.Debug("cancelled session", "id", session.ID, "reason", payload.Reason)
	return s.getSession(ctx, session.ID)
}

// findSession locates exactly one scheduled session by staff, day, and
// start time.
func (s *SQLiteStorage) findSession(ctx context.Context, staff, day, start string) (*model.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff, room, day, start_time, end_time, status, notes, created_at
		FROM sessions
		WHERE staff = ? COLLATE NOCASE AND day = ? AND start_time = ? AND status = ?`,
		strings.TrimSpace(staff), normalizeDay(day), start, string(model.SessionScheduled))
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, NewValidationError("session", fmt.Sprintf("no scheduled session for %s on %s at %s", staff, day, start))
	case 1:
		return &matches[0], nil
	default:
		return nil, NewValidationError("session", fmt.Sprintf("%d sessions match %s on %s at %s", len(matches), staff, day, start))
	}
}

func (s *SQLiteStorage) getSession(ctx context.Context, id int64) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, staff, room, day, start_time, end_time, status, notes, created_at
		FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewValidationError("session", fmt.Sprintf("session %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var session model.Session
	var room, end, notes sql.NullString
	var status string
	if err := row.Scan(&session.ID, &session.Staff, &room, &session.Day, &session.Start, &end, &status, &notes, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	session.Room = room.String
	session.End = end.String
	session.Notes = notes.String
	session.Status = model.SessionStatus(status)
	return &session, nil
}

func normalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}
