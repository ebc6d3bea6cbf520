package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rosterflow/rosterflow/internal/model"
)

// CreateStaff persists a new staff member from a confirmed candidate.
func (s *SQLiteStorage) CreateStaff(ctx context.Context, payload model.StaffPayload) (*model.StaffMember, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateStaffPayload(payload); err != nil {
		return nil, err
	}

	existing, err := s.GetStaffByName(ctx, payload.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewValidationError("name", fmt.Sprintf("staff member %q already exists", payload.Name))
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (name, role, weekly_hours)
		VALUES (?, ?, ?)`,
		payload.Name, payload.Role, payload.WeeklyHours)
	if err != nil {
		return nil, fmt.Errorf("failed to insert staff member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff id: %w", err)
	}

	var member model.StaffMember
	err = s.db.QueryRowContext(ctx, `
		SELECT id, name, role, weekly_hours, created_at
		FROM staff WHERE id = ?`, id).Scan(
		&member.ID, &member.Name, &member.Role, &member.WeeklyHours, &member.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read back staff member: %w", err)
	}

	slog.Debug("created staff member", "id", id, "name", payload.Name)
	return &member, nil
}

// GetStaff returns all staff members ordered by name.
func (s *SQLiteStorage) GetStaff(ctx context.Context) ([]model.StaffMember, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, weekly_hours, created_at
		FROM staff
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []model.StaffMember
	for rows.Next() {
		var member model.StaffMember
		if err := rows.Scan(&member.ID, &member.Name, &member.Role, &member.WeeklyHours, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}
	return members, nil
}

// GetStaffByName returns a staff member by name (case-insensitive), or
// nil when none matches.
func (s *SQLiteStorage) GetStaffByName(ctx context.Context, name string) (*model.StaffMember, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var member model.StaffMember
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, role, weekly_hours, created_at
		FROM staff
		WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name)).Scan(
		&member.ID, &member.Name, &member.Role, &member.WeeklyHours, &member.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query staff member: %w", err)
	}
	return &member, nil
}

func validateStaffPayload(payload model.StaffPayload) error {
	if strings.TrimSpace(payload.Name) == "" {
		return NewValidationError("name", "staff name is required")
	}
	if payload.WeeklyHours < 0 || payload.WeeklyHours > 80 {
		return NewValidationError("weekly_hours", fmt.Sprintf("weekly hours must be 0-80, got %d", payload.WeeklyHours))
	}
	return nil
}
