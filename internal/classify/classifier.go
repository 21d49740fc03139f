// Package classify implements the categorization cascade for normalized
// transactions: admin-curated merchant records, external category hints,
// the static merchant-pattern table, the static keyword table, and a
// sign-based fallback, in that order. The first successful tier wins;
// tiers are never blended.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/service"
	"github.com/finchworks/ledgerline/internal/taxonomy"
)

// Fixed confidences for the lower cascade tiers.
const (
	merchantTableConfidence = 0.75
	keywordTableConfidence  = 0.65
)

// Numeric confidence derived from an external hint's qualitative label.
const (
	hintConfidenceVeryHigh = 0.95
	hintConfidenceHigh     = 0.85
	hintConfidenceMedium   = 0.75
	hintConfidenceLow      = 0.65
	hintConfidenceDefault  = 0.80
)

// merchantCacheTTL bounds how stale the admin merchant cache may get.
const merchantCacheTTL = 5 * time.Minute

// Input is one transaction's worth of categorization evidence.
type Input struct {
	Hint        *model.ExternalHint
	Description string
	Merchant    string
	RawAmount   float64
}

// Classifier assigns categories to transactions. It is safe for concurrent
// use; the admin merchant cache refreshes lazily and tolerates stale reads.
type Classifier struct {
	cacheExpiry time.Time
	source      service.MerchantSource
	tax         *taxonomy.Table
	logger      *slog.Logger
	merchants   []model.Merchant
	mu          sync.RWMutex
	loaded      bool
}

// New creates a classifier over the given taxonomy and admin merchant source.
func New(tax *taxonomy.Table, source service.MerchantSource) *Classifier {
	return &Classifier{
		tax:    tax,
		source: source,
		logger: slog.Default().With("component", "classify"),
	}
}

// Categorize runs the cascade for one transaction. The only error it can
// return is an admin-merchant lookup failure, which indicates infrastructure
// unavailability; every data-level failure degrades to a lower tier, ending
// at the sign-based fallback.
func (c *Classifier) Categorize(ctx context.Context, in Input) (model.CategoryMatch, error) {
	text := in.Merchant
	if text == "" {
		text = in.Description
	}

	// Tier 1: admin-curated merchant records.
	if text != "" {
		match, found, err := c.matchAdminMerchant(ctx, text)
		if err != nil {
			return model.CategoryMatch{}, fmt.Errorf("admin merchant lookup failed: %w", err)
		}
		if found {
			return match, nil
		}
	}

	// Tier 2: external category hint.
	if in.Hint != nil {
		if match, found := c.matchHint(in.Hint); found {
			return match, nil
		}
	}

	searchText := strings.ToLower(strings.TrimSpace(in.Description + " " + in.Merchant))

	// Tier 3: static merchant-pattern table.
	if match, found := c.matchMerchantTable(searchText); found {
		return match, nil
	}

	// Tier 4: static keyword table.
	if match, found := c.matchKeywords(strings.ToLower(in.Description)); found {
		return match, nil
	}

	// Tier 5: sign-based fallback.
	return c.fallback(in.RawAmount), nil
}

// matchAdminMerchant scores every active admin record against the text and
// keeps the highest score at or above the threshold. Ties go to the record
// seen first.
func (c *Classifier) matchAdminMerchant(ctx context.Context, text string) (model.CategoryMatch, bool, error) {
	merchants, err := c.activeMerchants(ctx)
	if err != nil {
		return model.CategoryMatch{}, false, err
	}

	var (
		bestScore    float64
		bestMerchant *model.Merchant
	)
	for i := range merchants {
		score := MatchScore(merchants[i], text)
		if score >= minMerchantScore && score > bestScore {
			bestScore = score
			bestMerchant = &merchants[i]
		}
	}

	if bestMerchant == nil {
		return model.CategoryMatch{}, false, nil
	}

	def, ok := c.tax.ByID(bestMerchant.CategoryID)
	if !ok {
		c.logger.Warn("Admin merchant references unknown category",
			"merchant", bestMerchant.Name,
			"category_id", bestMerchant.CategoryID)
		return model.CategoryMatch{}, false, nil
	}

	return matchFromDefinition(def, model.SourceAdminMerchant, bestScore), true, nil
}

// matchHint resolves an external category hint, preferring the detailed code
// over the primary code.
func (c *Classifier) matchHint(hint *model.ExternalHint) (model.CategoryMatch, bool) {
	def, ok := c.tax.ByExternalDetailed(hint.Detailed)
	if !ok {
		def, ok = c.tax.ByExternalPrimary(hint.Primary)
	}
	if !ok {
		return model.CategoryMatch{}, false
	}

	return matchFromDefinition(def, model.SourceExternalHint, hintConfidence(hint.Confidence)), true
}

func hintConfidence(label model.HintConfidence) float64 {
	switch label {
	case model.HintVeryHigh:
		return hintConfidenceVeryHigh
	case model.HintHigh:
		return hintConfidenceHigh
	case model.HintMedium:
		return hintConfidenceMedium
	case model.HintLow:
		return hintConfidenceLow
	}
	return hintConfidenceDefault
}

// matchMerchantTable scans the static merchant-pattern table. Priority
// phrases (transfers, refunds, credit-card payments) resolve before the
// generic groups.
func (c *Classifier) matchMerchantTable(text string) (model.CategoryMatch, bool) {
	if text == "" {
		return model.CategoryMatch{}, false
	}

	for _, priority := range taxonomy.PriorityPhrases {
		for _, phrase := range priority.Phrases {
			if strings.Contains(text, phrase) {
				return c.staticMatch(priority.CategoryID, model.SourceMerchantTable, merchantTableConfidence)
			}
		}
	}

	for _, group := range taxonomy.MerchantGroups {
		for _, pattern := range group.Patterns {
			if strings.Contains(text, pattern) {
				return c.staticMatch(group.CategoryID, model.SourceMerchantTable, merchantTableConfidence)
			}
		}
	}

	return model.CategoryMatch{}, false
}

// matchKeywords scans the static keyword table against the description.
func (c *Classifier) matchKeywords(description string) (model.CategoryMatch, bool) {
	if description == "" {
		return model.CategoryMatch{}, false
	}

	for _, group := range taxonomy.KeywordGroups() {
		for _, keyword := range group.Keywords {
			if strings.Contains(description, keyword) {
				return c.staticMatch(group.CategoryID, model.SourceKeywordTable, keywordTableConfidence)
			}
		}
	}

	return model.CategoryMatch{}, false
}

func (c *Classifier) staticMatch(categoryID string, source model.MatchSource, confidence float64) (model.CategoryMatch, bool) {
	def, ok := c.tax.ByID(categoryID)
	if !ok {
		c.logger.Warn("Static table references unknown category", "category_id", categoryID)
		return model.CategoryMatch{}, false
	}
	return matchFromDefinition(def, source, confidence), true
}

// fallback returns the terminal zero-confidence match: the designated income
// category for inflows, the uncategorized entry otherwise. A missing
// taxonomy fallback is synthesized so downstream storage never sees a
// transaction without a category.
func (c *Classifier) fallback(rawAmount float64) model.CategoryMatch {
	ledger := model.LedgerExpense
	if rawAmount > 0 {
		ledger = model.LedgerIncome
	}

	if def, ok := c.tax.Fallback(ledger); ok {
		return matchFromDefinition(def, model.SourceUncategorized, 0)
	}

	c.logger.Warn("Taxonomy missing fallback entry, synthesizing", "ledger_type", ledger)
	return model.CategoryMatch{
		CategoryID:   taxonomy.FallbackExpenseID,
		CategoryName: "Uncategorized",
		Source:       model.SourceUncategorized,
		LedgerType:   ledger,
		BudgetType:   model.BudgetFlexible,
	}
}

func matchFromDefinition(def *model.CategoryDefinition, source model.MatchSource, confidence float64) model.CategoryMatch {
	return model.CategoryMatch{
		CategoryID:   def.ID,
		CategoryName: def.Name,
		Subcategory:  def.Subcategory,
		Confidence:   confidence,
		Source:       source,
		LedgerType:   def.LedgerType,
		BudgetType:   def.BudgetType,
	}
}

// activeMerchants returns the cached admin merchant set, refreshing it
// lazily when empty or expired. Readers may see slightly stale data while a
// refresh is pending; they never block on one.
func (c *Classifier) activeMerchants(ctx context.Context) ([]model.Merchant, error) {
	c.mu.RLock()
	if c.loaded && time.Now().Before(c.cacheExpiry) {
		merchants := c.merchants
		c.mu.RUnlock()
		return merchants, nil
	}
	c.mu.RUnlock()

	merchants, err := c.source.ListActiveMerchants(ctx)
	if err != nil {
		// Serve stale data if we have any; infrastructure failures only
		// propagate when the cache has never been filled.
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.loaded {
			c.logger.Warn("Merchant refresh failed, serving stale cache", "error", err)
			return c.merchants, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.merchants = merchants
	c.loaded = true
	c.cacheExpiry = time.Now().Add(merchantCacheTTL)
	c.mu.Unlock()

	return merchants, nil
}

// RefreshMerchants forces a reload of the admin merchant cache.
func (c *Classifier) RefreshMerchants(ctx context.Context) error {
	merchants, err := c.source.ListActiveMerchants(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh merchants: %w", err)
	}

	c.mu.Lock()
	c.merchants = merchants
	c.loaded = true
	c.cacheExpiry = time.Now().Add(merchantCacheTTL)
	c.mu.Unlock()

	return nil
}
