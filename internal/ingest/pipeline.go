// Package ingest wires the tabular parser, the categorization cascade, the
// automation rule engine, and storage into one import pipeline.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finchworks/ledgerline/internal/classify"
	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/rules"
	"github.com/finchworks/ledgerline/internal/service"
	"github.com/finchworks/ledgerline/internal/tabular"
	"github.com/google/uuid"
)

// Pipeline runs transactions through classification and rules, then persists
// them. Transactions come out in the same order they went in.
type Pipeline struct {
	storage    service.Storage
	classifier *classify.Classifier
	engine     *rules.Engine
	logger     *slog.Logger
	userID     string

	// Progress, when set, is called after each transaction is classified.
	Progress func(processed, total int)
}

// New creates an import pipeline for the given user.
func New(storage service.Storage, classifier *classify.Classifier, engine *rules.Engine, userID string) *Pipeline {
	return &Pipeline{
		storage:    storage,
		classifier: classifier,
		engine:     engine,
		userID:     userID,
		logger:     slog.Default().With("component", "ingest"),
	}
}

// ImportFile parses raw CSV or TSV text and imports the resulting
// transactions against the given account.
func (p *Pipeline) ImportFile(ctx context.Context, text, accountID string) (service.ImportStats, error) {
	rows := tabular.Parse(text)
	if len(rows) == 0 {
		return service.ImportStats{}, common.ErrNoTransactions
	}

	transactions := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		txn := model.Transaction{
			ID:           uuid.NewString(),
			Date:         row.Date,
			Name:         row.Description,
			MerchantName: row.Merchant,
			RawAmount:    row.RawAmount,
			Amount:       row.Amount,
			AccountID:    accountID,
			UserID:       p.userID,
		}
		txn.Hash = txn.GenerateHash()
		transactions = append(transactions, txn)
	}

	return p.ImportTransactions(ctx, transactions)
}

// ImportTransactions classifies, applies rules to, and persists a batch of
// transactions. Duplicates within the batch (by hash) are skipped; duplicates
// already persisted are ignored by storage.
func (p *Pipeline) ImportTransactions(ctx context.Context, transactions []model.Transaction) (service.ImportStats, error) {
	start := time.Now()
	stats := service.ImportStats{Total: len(transactions)}

	if len(transactions) == 0 {
		return stats, common.ErrNoTransactions
	}

	userRules, err := p.storage.ListUserRules(ctx, p.userID)
	if err != nil {
		return stats, fmt.Errorf("failed to load automation rules: %w", err)
	}

	seen := make(map[string]bool, len(transactions))
	batch := make([]model.Transaction, 0, len(transactions))

	for i := range transactions {
		txn := transactions[i]
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if txn.UserID == "" {
			txn.UserID = p.userID
		}
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		if seen[txn.Hash] {
			stats.Skipped++
			p.logger.Debug("Skipping duplicate transaction",
				"merchant", txn.MerchantName,
				"date", txn.Date.Format("2006-01-02"))
			continue
		}
		seen[txn.Hash] = true

		match, err := p.classifier.Categorize(ctx, classify.Input{
			Hint:        txn.Hint,
			Description: txn.Name,
			Merchant:    txn.MerchantName,
			RawAmount:   txn.RawAmount,
		})
		if err != nil {
			return stats, fmt.Errorf("categorization failed for %q: %w", txn.Name, err)
		}
		txn.ApplyMatch(match)

		batch = append(batch, txn)
		if p.Progress != nil {
			p.Progress(i+1, stats.Total)
		}
	}

	mutated, logs, err := p.engine.ApplyBatch(ctx, batch, userRules)
	if err != nil {
		return stats, fmt.Errorf("failed to apply automation rules: %w", err)
	}
	for _, applications := range logs {
		for _, app := range applications {
			if app.Applied {
				stats.RulesApplied++
			}
		}
	}

	if err := p.storage.SaveTransactions(ctx, mutated); err != nil {
		return stats, fmt.Errorf("failed to save transactions: %w", err)
	}

	stats.Imported = len(mutated)
	stats.Duration = time.Since(start)

	p.logger.Info("Import complete",
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"rules_applied", stats.RulesApplied,
		"duration", stats.Duration)

	return stats, nil
}
