package model

import "time"

// TransactionType filters which transactions an automation rule applies to.
type TransactionType string

// Transaction type constants.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
	TypeBoth    TransactionType = "both"
)

// AutomationRule is a user-owned condition/action rule applied on top of the
// categorizer's output. Higher priority rules are evaluated first; each rule
// sees the transaction as mutated by the rules before it. AppliedCount is a
// monotonic counter maintained by the engine, never set by the user.
type AutomationRule struct {
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	AmountMin          *float64              `json:"amount_min,omitempty"`
	AmountMax          *float64              `json:"amount_max,omitempty"`
	Name               string                `json:"name"`
	UserID             string                `json:"user_id"`
	MerchantPattern    string                `json:"merchant_pattern"`
	DescriptionPattern string                `json:"description_pattern"`
	TransactionType    TransactionType       `json:"transaction_type"`
	SetCategoryID      string                `json:"set_category_id"`
	RenameTo           string                `json:"rename_to"`
	AddTagIDs          []string              `json:"add_tag_ids"`
	ID                 int64                 `json:"id"`
	Priority           int                   `json:"priority"`
	AppliedCount       int                   `json:"applied_count"`
	IgnoreBudgeting    bool                  `json:"ignore_budgeting"`
	IgnoreReporting    bool                  `json:"ignore_reporting"`
	IsActive           bool                  `json:"is_active"`
}

// HasActions reports whether the rule mutates anything when it matches.
func (r *AutomationRule) HasActions() bool {
	return r.SetCategoryID != "" || r.RenameTo != "" || len(r.AddTagIDs) > 0 ||
		r.IgnoreBudgeting || r.IgnoreReporting
}

// RuleApplication records the outcome of evaluating one rule against one
// transaction. It is ephemeral: produced for audit trails and debugging,
// never persisted.
type RuleApplication struct {
	RuleName string
	Reason   string
	RuleID   int64
	Applied  bool
}
