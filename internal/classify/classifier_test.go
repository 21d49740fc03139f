package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMerchantSource struct {
	merchants []model.Merchant
	err       error
	calls     int
}

func (m *mockMerchantSource) ListActiveMerchants(_ context.Context) ([]model.Merchant, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.merchants, nil
}

func newTestClassifier(merchants []model.Merchant) (*Classifier, *mockMerchantSource) {
	source := &mockMerchantSource{merchants: merchants}
	return New(taxonomy.Default(), source), source
}

func TestCategorizeAdminMerchantWins(t *testing.T) {
	classifier, _ := newTestClassifier([]model.Merchant{
		{ID: 1, Name: "Starbucks", CategoryID: "food_drink", IsActive: true},
	})

	// The hint disagrees but the admin record takes precedence
	match, err := classifier.Categorize(context.Background(), Input{
		Description: "STARBUCKS STORE #123",
		Merchant:    "STARBUCKS STORE #123",
		RawAmount:   -5.75,
		Hint:        &model.ExternalHint{Primary: "GENERAL_MERCHANDISE", Confidence: model.HintVeryHigh},
	})
	require.NoError(t, err)

	assert.Equal(t, "food_drink", match.CategoryID)
	assert.Equal(t, model.SourceAdminMerchant, match.Source)
	assert.Equal(t, 1.0, match.Confidence) // exact containment score
}

func TestCategorizeAdminMerchantTieBreak(t *testing.T) {
	// Two records score identically; the one seen first wins
	classifier, _ := newTestClassifier([]model.Merchant{
		{ID: 1, Name: "Starbucks", CategoryID: "food_drink", IsActive: true},
		{ID: 2, Name: "Starbucks", CategoryID: "shopping", IsActive: true},
	})

	match, err := classifier.Categorize(context.Background(), Input{
		Merchant:  "STARBUCKS",
		RawAmount: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, "food_drink", match.CategoryID)
}

func TestCategorizeHintTier(t *testing.T) {
	classifier, _ := newTestClassifier(nil)

	tests := []struct {
		name           string
		hint           *model.ExternalHint
		wantCategory   string
		wantConfidence float64
	}{
		{
			name:           "detailed code with very high label",
			hint:           &model.ExternalHint{Primary: "FOOD_AND_DRINK", Detailed: "FOOD_AND_DRINK_GROCERIES", Confidence: model.HintVeryHigh},
			wantCategory:   "groceries",
			wantConfidence: hintConfidenceVeryHigh,
		},
		{
			name:           "primary fallback when detailed unknown",
			hint:           &model.ExternalHint{Primary: "TRAVEL", Detailed: "TRAVEL_SOMETHING_NEW", Confidence: model.HintHigh},
			wantCategory:   "travel",
			wantConfidence: hintConfidenceHigh,
		},
		{
			name:           "medium label",
			hint:           &model.ExternalHint{Detailed: "MEDICAL_PRIMARY_CARE", Confidence: model.HintMedium},
			wantCategory:   "medical",
			wantConfidence: hintConfidenceMedium,
		},
		{
			name:           "low label",
			hint:           &model.ExternalHint{Detailed: "BANK_FEES_OVERDRAFT_FEES", Confidence: model.HintLow},
			wantCategory:   "fees",
			wantConfidence: hintConfidenceLow,
		},
		{
			name:           "missing label gets the default",
			hint:           &model.ExternalHint{Detailed: "TRANSPORTATION_GAS"},
			wantCategory:   "gas",
			wantConfidence: hintConfidenceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := classifier.Categorize(context.Background(), Input{
				Description: "SOMETHING UNMATCHABLE XQZV",
				RawAmount:   -10,
				Hint:        tt.hint,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, match.CategoryID)
			assert.Equal(t, model.SourceExternalHint, match.Source)
			assert.Equal(t, tt.wantConfidence, match.Confidence)
		})
	}
}

func TestCategorizeHintUnresolvableFallsThrough(t *testing.T) {
	classifier, _ := newTestClassifier(nil)

	match, err := classifier.Categorize(context.Background(), Input{
		Description: "NETFLIX.COM",
		RawAmount:   -15.49,
		Hint:        &model.ExternalHint{Primary: "NO_SUCH_PRIMARY", Detailed: "NO_SUCH_DETAILED"},
	})
	require.NoError(t, err)

	// Falls to the static merchant table
	assert.Equal(t, "subscriptions", match.CategoryID)
	assert.Equal(t, model.SourceMerchantTable, match.Source)
	assert.Equal(t, merchantTableConfidence, match.Confidence)
}

func TestCategorizeMerchantTablePriorityPhrases(t *testing.T) {
	classifier, _ := newTestClassifier(nil)

	tests := []struct {
		description  string
		wantCategory string
	}{
		{"Payment Thank You - Web", "credit_card_payment"},
		{"ONLINE TRANSFER TO SAVINGS", "transfer"},
		{"AMAZON MKTPL REFUND", "refund"}, // refund outranks the amazon pattern
		{"STARBUCKS STORE 123", "food_drink"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			match, err := classifier.Categorize(context.Background(), Input{
				Description: tt.description,
				RawAmount:   -20,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, match.CategoryID)
			assert.Equal(t, model.SourceMerchantTable, match.Source)
		})
	}
}

func TestCategorizeKeywordTier(t *testing.T) {
	classifier, _ := newTestClassifier(nil)

	match, err := classifier.Categorize(context.Background(), Input{
		Description: "ACME PAYROLL RUN 0031",
		RawAmount:   2500,
	})
	require.NoError(t, err)

	assert.Equal(t, "paycheck", match.CategoryID)
	assert.Equal(t, model.SourceKeywordTable, match.Source)
	assert.Equal(t, keywordTableConfidence, match.Confidence)
}

func TestCategorizeFallback(t *testing.T) {
	classifier, _ := newTestClassifier(nil)

	match, err := classifier.Categorize(context.Background(), Input{
		Description: "XQZV UNKNOWN VENDOR",
		RawAmount:   -42,
	})
	require.NoError(t, err)
	assert.Equal(t, taxonomy.FallbackExpenseID, match.CategoryID)
	assert.Equal(t, model.SourceUncategorized, match.Source)
	assert.Equal(t, 0.0, match.Confidence)

	match, err = classifier.Categorize(context.Background(), Input{
		Description: "XQZV UNKNOWN SENDER",
		RawAmount:   42,
	})
	require.NoError(t, err)
	assert.Equal(t, taxonomy.FallbackIncomeID, match.CategoryID)
	assert.Equal(t, 0.0, match.Confidence)
}

func TestCategorizeMerchantLookupFailure(t *testing.T) {
	source := &mockMerchantSource{err: errors.New("database is locked")}
	classifier := New(taxonomy.Default(), source)

	_, err := classifier.Categorize(context.Background(), Input{
		Merchant:  "STARBUCKS",
		RawAmount: -5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin merchant lookup failed")
}

func TestCategorizeServesStaleCacheOnRefreshFailure(t *testing.T) {
	source := &mockMerchantSource{merchants: []model.Merchant{
		{ID: 1, Name: "Starbucks", CategoryID: "food_drink", IsActive: true},
	}}
	classifier := New(taxonomy.Default(), source)

	require.NoError(t, classifier.RefreshMerchants(context.Background()))

	// Later refreshes fail but the warm cache still answers
	source.err = errors.New("database is locked")
	classifier.cacheExpiry = classifier.cacheExpiry.Add(-2 * merchantCacheTTL)

	match, err := classifier.Categorize(context.Background(), Input{
		Merchant:  "STARBUCKS",
		RawAmount: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, "food_drink", match.CategoryID)
}

func TestCategorizeBelowThresholdIgnoresAdminRecords(t *testing.T) {
	classifier, _ := newTestClassifier([]model.Merchant{
		{ID: 1, Name: "Completely Different Vendor", CategoryID: "shopping", IsActive: true},
	})

	match, err := classifier.Categorize(context.Background(), Input{
		Description: "NETFLIX.COM",
		Merchant:    "NETFLIX.COM",
		RawAmount:   -15.49,
	})
	require.NoError(t, err)
	assert.Equal(t, "subscriptions", match.CategoryID)
	assert.Equal(t, model.SourceMerchantTable, match.Source)
}

func TestCategorizeMerchantCacheReused(t *testing.T) {
	classifier, source := newTestClassifier([]model.Merchant{
		{ID: 1, Name: "Starbucks", CategoryID: "food_drink", IsActive: true},
	})

	for i := 0; i < 3; i++ {
		_, err := classifier.Categorize(context.Background(), Input{
			Merchant:  "STARBUCKS",
			RawAmount: -5,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, source.calls)
}
