package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
)

// ListUserRules returns a user's automation rules ordered by descending
// priority (ties by insertion order).
func (s *SQLiteStorage) ListUserRules(ctx context.Context, userID string) ([]model.AutomationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, merchant_pattern, description_pattern,
			amount_min, amount_max, transaction_type, set_category_id,
			rename_to, add_tag_ids, ignore_budgeting, ignore_reporting,
			priority, applied_count, is_active, created_at, updated_at
		FROM automation_rules
		WHERE user_id = ?
		ORDER BY priority DESC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var userRules []model.AutomationRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		userRules = append(userRules, rule)
	}

	return userRules, rows.Err()
}

// GetRule retrieves a single automation rule by ID.
func (s *SQLiteStorage) GetRule(ctx context.Context, id int64) (*model.AutomationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, merchant_pattern, description_pattern,
			amount_min, amount_max, transaction_type, set_category_id,
			rename_to, add_tag_ids, ignore_budgeting, ignore_reporting,
			priority, applied_count, is_active, created_at, updated_at
		FROM automation_rules
		WHERE id = ?
	`, id)

	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rule, nil
}

// SaveRule inserts or updates an automation rule. AppliedCount is never
// written from user input; only IncrementRuleAppliedCount touches it.
func (s *SQLiteStorage) SaveRule(ctx context.Context, rule *model.AutomationRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	now := time.Now()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	if rule.TransactionType == "" {
		rule.TransactionType = model.TypeBoth
	}

	tags, err := json.Marshal(rule.AddTagIDs)
	if err != nil {
		return fmt.Errorf("failed to encode rule tags: %w", err)
	}

	if rule.ID == 0 {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO automation_rules (user_id, name, merchant_pattern,
				description_pattern, amount_min, amount_max, transaction_type,
				set_category_id, rename_to, add_tag_ids, ignore_budgeting,
				ignore_reporting, priority, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rule.UserID, rule.Name, rule.MerchantPattern, rule.DescriptionPattern,
			rule.AmountMin, rule.AmountMax, rule.TransactionType, rule.SetCategoryID,
			rule.RenameTo, string(tags), rule.IgnoreBudgeting, rule.IgnoreReporting,
			rule.Priority, rule.IsActive, rule.CreatedAt, rule.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert rule: %w", err)
		}
		rule.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get rule ID: %w", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE automation_rules
		SET name = ?, merchant_pattern = ?, description_pattern = ?,
			amount_min = ?, amount_max = ?, transaction_type = ?,
			set_category_id = ?, rename_to = ?, add_tag_ids = ?,
			ignore_budgeting = ?, ignore_reporting = ?, priority = ?,
			is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, rule.Name, rule.MerchantPattern, rule.DescriptionPattern,
		rule.AmountMin, rule.AmountMax, rule.TransactionType, rule.SetCategoryID,
		rule.RenameTo, string(tags), rule.IgnoreBudgeting, rule.IgnoreReporting,
		rule.Priority, rule.IsActive, rule.UpdatedAt, rule.ID, rule.UserID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	return nil
}

// DeleteRule removes an automation rule.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM automation_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// IncrementRuleAppliedCount bumps a rule's applied counter by one. The
// increment is atomic at the row level so concurrent batches never lose
// counts.
func (s *SQLiteStorage) IncrementRuleAppliedCount(ctx context.Context, ruleID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE automation_rules
		SET applied_count = applied_count + 1
		WHERE id = ?
	`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to increment applied count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func scanRule(row rowScanner) (model.AutomationRule, error) {
	var (
		rule    model.AutomationRule
		tagsRaw sql.NullString
	)

	err := row.Scan(
		&rule.ID,
		&rule.UserID,
		&rule.Name,
		&rule.MerchantPattern,
		&rule.DescriptionPattern,
		&rule.AmountMin,
		&rule.AmountMax,
		&rule.TransactionType,
		&rule.SetCategoryID,
		&rule.RenameTo,
		&tagsRaw,
		&rule.IgnoreBudgeting,
		&rule.IgnoreReporting,
		&rule.Priority,
		&rule.AppliedCount,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AutomationRule{}, err
		}
		return model.AutomationRule{}, fmt.Errorf("failed to scan rule: %w", err)
	}

	if tagsRaw.Valid && tagsRaw.String != "" {
		if err := json.Unmarshal([]byte(tagsRaw.String), &rule.AddTagIDs); err != nil {
			return model.AutomationRule{}, fmt.Errorf("failed to decode tags for rule %q: %w", rule.Name, err)
		}
	}

	return rule, nil
}
