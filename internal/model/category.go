package model

// LedgerType classifies how a category participates in the ledger.
type LedgerType string

// Ledger type constants.
const (
	LedgerIncome        LedgerType = "INCOME"
	LedgerExpense       LedgerType = "EXPENSE"
	LedgerTransfer      LedgerType = "TRANSFER"
	LedgerDebtPrincipal LedgerType = "DEBT_PRINCIPAL"
	LedgerDebtInterest  LedgerType = "DEBT_INTEREST"
	LedgerAdjustment    LedgerType = "ADJUSTMENT"
)

// BudgetType classifies how a category behaves in a budget.
type BudgetType string

// Budget type constants.
const (
	BudgetFixed      BudgetType = "FIXED"
	BudgetFlexible   BudgetType = "FLEXIBLE"
	BudgetNonMonthly BudgetType = "NON_MONTHLY"
)

// CategoryDefinition is a static taxonomy entry. Definitions are seeded once
// and never deleted while transactions reference them; renames go through the
// taxonomy alias table instead of mutating historical records.
type CategoryDefinition struct {
	ID               string
	Name             string
	Subcategory      string
	LedgerType       LedgerType
	BudgetType       BudgetType
	ExternalPrimary  string
	ExternalDetailed string
	Keywords         []string
}

// MatchSource identifies which tier of the categorization cascade produced
// a match.
type MatchSource string

// Match source constants, ordered from highest to lowest cascade priority.
const (
	SourceAdminMerchant MatchSource = "admin_merchant"
	SourceExternalHint  MatchSource = "external_hint"
	SourceMerchantTable MatchSource = "merchant_table"
	SourceKeywordTable  MatchSource = "keyword_table"
	SourceUncategorized MatchSource = "uncategorized"
)

// CategoryMatch is the categorizer's output. It is never persisted on its
// own; callers fold it into the transaction record.
type CategoryMatch struct {
	CategoryID   string
	CategoryName string
	Subcategory  string
	Source       MatchSource
	LedgerType   LedgerType
	BudgetType   BudgetType
	Confidence   float64
}
