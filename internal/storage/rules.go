package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rosterflow/rosterflow/internal/common"
	"github.com/rosterflow/rosterflow/internal/model"
)

// CreateRule persists a new scheduling rule from a confirmed candidate.
func (s *SQLiteStorage) CreateRule(ctx context.Context, payload model.RulePayload) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateRulePayload(payload); err != nil {
		return nil, err
	}

	category := payload.Category
	if category == "" {
		category = "general"
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (category, description, priority)
		VALUES (?, ?, ?)`,
		category, payload.Description, payload.Priority)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get rule id: %w", err)
	}

	rule, err := s.getRule(ctx, id)
	if err != nil {
		return nil, err
	}

	slog.Debug("created rule", "id", id, "category", category)
	return rule, nil
}

// GetRules returns all active rules ordered by priority.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRules(ctx, `
		SELECT id, category, description, priority, is_active, created_at
		FROM rules
		WHERE is_active = 1
		ORDER BY priority DESC, id`)
}

// GetRulesByCategory returns active rules in one category.
func (s *SQLiteStorage) GetRulesByCategory(ctx context.Context, category string) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}
	return s.queryRules(ctx, `
		SELECT id, category, description, priority, is_active, created_at
		FROM rules
		WHERE is_active = 1 AND category = ?
		ORDER BY priority DESC, id`, category)
}

// DeleteRule soft-deletes a rule.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE rules SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStorage) getRule(ctx context.Context, id int64) (*model.Rule, error) {
	var rule model.Rule
	var active int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category, description, priority, is_active, created_at
		FROM rules WHERE id = ?`, id).Scan(
		&rule.ID, &rule.Category, &rule.Description, &rule.Priority, &active, &rule.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rule: %w", err)
	}
	rule.Active = active == 1
	return &rule, nil
}

func (s *SQLiteStorage) queryRules(ctx context.Context, query string, args ...any) ([]model.Rule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		var rule model.Rule
		var active int
		if err := rows.Scan(&rule.ID, &rule.Category, &rule.Description, &rule.Priority, &active, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule.Active = active == 1
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}
	return rules, nil
}

func validateRulePayload(payload model.RulePayload) error {
	if payload.Description == "" {
		return NewValidationError("description", "rule description is required")
	}
	if payload.Priority < 0 || payload.Priority > 100 {
		return NewValidationError("priority", fmt.Sprintf("priority must be 0-100, got %d", payload.Priority))
	}
	return nil
}
