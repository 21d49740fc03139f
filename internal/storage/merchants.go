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

// ListActiveMerchants returns all active admin merchant records. Results are
// cached for a short window; the classifier tolerates slightly stale data.
func (s *SQLiteStorage) ListActiveMerchants(ctx context.Context) ([]model.Merchant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.cacheMutex.RLock()
	if s.cacheLoaded && time.Now().Before(s.cacheExpiry) {
		cached := s.merchantCache
		s.cacheMutex.RUnlock()
		return cached, nil
	}
	s.cacheMutex.RUnlock()

	merchants, err := s.listActiveMerchantsTx(ctx, s.db)
	if err != nil {
		return nil, err
	}

	s.cacheMutex.Lock()
	s.merchantCache = merchants
	s.cacheLoaded = true
	s.cacheExpiry = time.Now().Add(merchantCacheTTL)
	s.cacheMutex.Unlock()

	return merchants, nil
}

func (s *SQLiteStorage) listActiveMerchantsTx(ctx context.Context, q queryable) ([]model.Merchant, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, normalized_name, category_id, patterns, is_active, last_updated
		FROM admin_merchants
		WHERE is_active = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var merchants []model.Merchant
	for rows.Next() {
		merchant, err := scanMerchant(rows)
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, merchant)
	}

	return merchants, rows.Err()
}

// GetMerchant retrieves an admin merchant record by name.
func (s *SQLiteStorage) GetMerchant(ctx context.Context, name string) (*model.Merchant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, normalized_name, category_id, patterns, is_active, last_updated
		FROM admin_merchants
		WHERE name = ?
	`, name)

	merchant, err := scanMerchant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &merchant, nil
}

// SaveMerchant inserts or updates an admin merchant record.
func (s *SQLiteStorage) SaveMerchant(ctx context.Context, merchant *model.Merchant) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchant(merchant); err != nil {
		return err
	}

	if merchant.LastUpdated.IsZero() {
		merchant.LastUpdated = time.Now()
	}

	patterns, err := json.Marshal(merchant.Patterns)
	if err != nil {
		return fmt.Errorf("failed to encode merchant patterns: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_merchants (name, normalized_name, category_id, patterns, is_active, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			normalized_name = excluded.normalized_name,
			category_id = excluded.category_id,
			patterns = excluded.patterns,
			is_active = excluded.is_active,
			last_updated = excluded.last_updated
	`, merchant.Name, merchant.NormalizedName, merchant.CategoryID,
		string(patterns), merchant.IsActive, merchant.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to save merchant: %w", err)
	}

	s.invalidateMerchantCache()
	return nil
}

// DeleteMerchant removes an admin merchant record.
func (s *SQLiteStorage) DeleteMerchant(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM admin_merchants WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete merchant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	s.invalidateMerchantCache()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMerchant(row rowScanner) (model.Merchant, error) {
	var (
		merchant    model.Merchant
		patternsRaw sql.NullString
		normalized  sql.NullString
	)

	err := row.Scan(
		&merchant.ID,
		&merchant.Name,
		&normalized,
		&merchant.CategoryID,
		&patternsRaw,
		&merchant.IsActive,
		&merchant.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Merchant{}, err
		}
		return model.Merchant{}, fmt.Errorf("failed to scan merchant: %w", err)
	}

	merchant.NormalizedName = normalized.String
	if patternsRaw.Valid && patternsRaw.String != "" {
		if err := json.Unmarshal([]byte(patternsRaw.String), &merchant.Patterns); err != nil {
			return model.Merchant{}, fmt.Errorf("failed to decode patterns for merchant %q: %w", merchant.Name, err)
		}
	}

	return merchant, nil
}
