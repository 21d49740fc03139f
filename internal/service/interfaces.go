// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/finchworks/ledgerline/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	UserID    string
	Limit     int
	Offset    int
}

// MerchantSource provides read access to the admin-curated merchant table.
// The classifier depends on this narrow view rather than full Storage.
type MerchantSource interface {
	ListActiveMerchants(ctx context.Context) ([]model.Merchant, error)
}

// RuleStore provides the rule engine's view of persisted automation rules.
type RuleStore interface {
	ListUserRules(ctx context.Context, userID string) ([]model.AutomationRule, error)
	IncrementRuleAppliedCount(ctx context.Context, ruleID int64) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	MerchantSource
	RuleStore

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Admin merchant operations
	GetMerchant(ctx context.Context, name string) (*model.Merchant, error)
	SaveMerchant(ctx context.Context, merchant *model.Merchant) error
	DeleteMerchant(ctx context.Context, name string) error

	// Automation rule operations
	GetRule(ctx context.Context, id int64) (*model.AutomationRule, error)
	SaveRule(ctx context.Context, rule *model.AutomationRule) error
	DeleteRule(ctx context.Context, id int64) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ImportStats shows the results of an ingestion run.
type ImportStats struct {
	Duration     time.Duration
	Total        int
	Imported     int
	Skipped      int
	RulesApplied int
}
