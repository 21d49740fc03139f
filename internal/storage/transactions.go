package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/service"
)

// SaveTransactions bulk-inserts classified transactions. Duplicates (by
// hash) are skipped silently so re-importing a file is harmless.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, hash, date, name, merchant_name,
			account_id, user_id, raw_amount, amount, category_id, category_name,
			subcategory, confidence, match_source, ledger_type, budget_type,
			tags, ignore_budgeting, ignore_reporting)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		tags, err := json.Marshal(txn.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for transaction %q: %w", txn.ID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.Hash, txn.Date, txn.Name, txn.MerchantName,
			txn.AccountID, txn.UserID, txn.RawAmount, txn.Amount,
			txn.CategoryID, txn.CategoryName, txn.Subcategory, txn.Confidence,
			string(txn.Source), string(txn.LedgerType), string(txn.BudgetType),
			string(tags), txn.IgnoreBudgeting, txn.IgnoreReporting,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactionByID retrieves one transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, transactionSelect+` WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// GetTransactions retrieves transactions matching the filter, ordered by
// date then insertion order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := transactionSelect + ` WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}

	query += ` ORDER BY date ASC, rowid ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

const transactionSelect = `
	SELECT id, hash, date, name, merchant_name, account_id, user_id,
		raw_amount, amount, category_id, category_name, subcategory,
		confidence, match_source, ledger_type, budget_type, tags,
		ignore_budgeting, ignore_reporting
	FROM transactions`

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn          model.Transaction
		merchantName sql.NullString
		accountID    sql.NullString
		userID       sql.NullString
		categoryID   sql.NullString
		categoryName sql.NullString
		subcategory  sql.NullString
		matchSource  sql.NullString
		ledgerType   sql.NullString
		budgetType   sql.NullString
		tagsRaw      sql.NullString
	)

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Date,
		&txn.Name,
		&merchantName,
		&accountID,
		&userID,
		&txn.RawAmount,
		&txn.Amount,
		&categoryID,
		&categoryName,
		&subcategory,
		&txn.Confidence,
		&matchSource,
		&ledgerType,
		&budgetType,
		&tagsRaw,
		&txn.IgnoreBudgeting,
		&txn.IgnoreReporting,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.MerchantName = merchantName.String
	txn.AccountID = accountID.String
	txn.UserID = userID.String
	txn.CategoryID = categoryID.String
	txn.CategoryName = categoryName.String
	txn.Subcategory = subcategory.String
	txn.Source = model.MatchSource(matchSource.String)
	txn.LedgerType = model.LedgerType(ledgerType.String)
	txn.BudgetType = model.BudgetType(budgetType.String)

	if tagsRaw.Valid && tagsRaw.String != "" {
		if err := json.Unmarshal([]byte(tagsRaw.String), &txn.Tags); err != nil {
			return model.Transaction{}, fmt.Errorf("failed to decode tags for transaction %q: %w", txn.ID, err)
		}
	}

	return txn, nil
}
