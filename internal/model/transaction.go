// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// HintConfidence is the qualitative confidence label attached to an
// external category hint by the aggregator.
type HintConfidence string

// Hint confidence labels as delivered by the aggregator.
const (
	HintVeryHigh HintConfidence = "VERY_HIGH"
	HintHigh     HintConfidence = "HIGH"
	HintMedium   HintConfidence = "MEDIUM"
	HintLow      HintConfidence = "LOW"
)

// ExternalHint is a structured category hint supplied by the transaction
// source (primary + detailed codes plus an optional confidence label).
type ExternalHint struct {
	Primary    string
	Detailed   string
	Confidence HintConfidence
}

// Transaction represents a single financial transaction from any source.
// RawAmount is signed with positive meaning inflow; Amount is always the
// absolute value.
type Transaction struct {
	Date            time.Time
	Hint            *ExternalHint
	ID              string
	UserID          string
	Name            string // Raw transaction description
	MerchantName    string // Cleaned merchant name
	AccountID       string
	Hash            string
	Type            string // Source transaction type (e.g., DEBIT, CHECK, PAYMENT)
	CategoryID      string
	CategoryName    string
	Subcategory     string
	Source          MatchSource
	LedgerType      LedgerType
	BudgetType      BudgetType
	Tags            []string
	RawAmount       float64
	Amount          float64
	Confidence      float64
	IgnoreBudgeting bool
	IgnoreReporting bool
}

// IsInflow reports whether the transaction moves money in.
func (t *Transaction) IsInflow() bool {
	return t.RawAmount > 0
}

// ApplyMatch folds a category match into the transaction record.
func (t *Transaction) ApplyMatch(m CategoryMatch) {
	t.CategoryID = m.CategoryID
	t.CategoryName = m.CategoryName
	t.Subcategory = m.Subcategory
	t.Confidence = m.Confidence
	t.Source = m.Source
	t.LedgerType = m.LedgerType
	t.BudgetType = m.BudgetType
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.RawAmount,
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
