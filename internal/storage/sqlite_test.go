package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createTestTransactions(count int) []model.Transaction {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	txns := make([]model.Transaction, count)
	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			ID:           fmt.Sprintf("txn-%03d", i+1),
			Date:         base.AddDate(0, 0, i),
			Name:         fmt.Sprintf("TRANSACTION %d", i+1),
			MerchantName: fmt.Sprintf("Merchant %d", (i%3)+1),
			RawAmount:    -float64(i+1) * 10.50,
			Amount:       float64(i+1) * 10.50,
			AccountID:    "checking",
			UserID:       "user-1",
			CategoryID:   "shopping",
			CategoryName: "Shopping",
			Confidence:   0.75,
			Source:       model.SourceMerchantTable,
			LedgerType:   model.LedgerExpense,
			Tags:         []string{"imported"},
		}
		txns[i].Hash = txns[i].GenerateHash()
	}
	return txns
}

func TestMigrateIdempotent(t *testing.T) {
	store := createTestStorage(t)

	// A second run finds nothing to do
	require.NoError(t, store.Migrate(context.Background()))

	version, err := store.currentSchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSaveAndGetTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(3)
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.GetTransactionByID(ctx, "txn-002")
	require.NoError(t, err)

	assert.Equal(t, "TRANSACTION 2", got.Name)
	assert.Equal(t, "Merchant 2", got.MerchantName)
	assert.Equal(t, -21.0, got.RawAmount)
	assert.Equal(t, 21.0, got.Amount)
	assert.Equal(t, "shopping", got.CategoryID)
	assert.Equal(t, model.SourceMerchantTable, got.Source)
	assert.Equal(t, model.LedgerExpense, got.LedgerType)
	assert.Equal(t, []string{"imported"}, got.Tags)
	assert.True(t, got.Date.Equal(txns[1].Date))
}

func TestSaveTransactionsIgnoresDuplicates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(2)
	require.NoError(t, store.SaveTransactions(ctx, txns))

	// Re-importing the same file must not error or duplicate rows
	reimport := createTestTransactions(2)
	reimport[0].ID = "txn-901"
	reimport[1].ID = "txn-902"
	require.NoError(t, store.SaveTransactions(ctx, reimport))

	all, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveTransactionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	missingID := createTestTransactions(1)
	missingID[0].ID = ""
	assert.Error(t, store.SaveTransactions(ctx, missingID))

	missingHash := createTestTransactions(1)
	missingHash[0].Hash = ""
	assert.Error(t, store.SaveTransactions(ctx, missingHash))

	zeroDate := createTestTransactions(1)
	zeroDate[0].Date = time.Time{}
	assert.Error(t, store.SaveTransactions(ctx, zeroDate))
}

func TestGetTransactionByIDNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetTransactionByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetTransactionsFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(5)
	txns[4].UserID = "user-2"
	txns[4].Hash = "distinct-hash"
	require.NoError(t, store.SaveTransactions(ctx, txns))

	t.Run("by user", func(t *testing.T) {
		got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "user-2"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "txn-005", got[0].ID)
	})

	t.Run("by date range", func(t *testing.T) {
		start := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
		got, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "txn-002", got[0].ID)
		assert.Equal(t, "txn-003", got[1].ID)
	})

	t.Run("ordered by date with limit and offset", func(t *testing.T) {
		got, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "txn-002", got[0].ID)
		assert.Equal(t, "txn-003", got[1].ID)
	})
}

func TestMerchantRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	merchant := &model.Merchant{
		Name:           "Starbucks",
		NormalizedName: "starbucks",
		CategoryID:     "food_drink",
		Patterns:       []string{"starbucks*", "sbux*"},
		IsActive:       true,
	}
	require.NoError(t, store.SaveMerchant(ctx, merchant))

	got, err := store.GetMerchant(ctx, "Starbucks")
	require.NoError(t, err)
	assert.Equal(t, "food_drink", got.CategoryID)
	assert.Equal(t, []string{"starbucks*", "sbux*"}, got.Patterns)
	assert.True(t, got.IsActive)
	assert.False(t, got.LastUpdated.IsZero())

	// Saving the same name updates in place
	merchant.CategoryID = "shopping"
	require.NoError(t, store.SaveMerchant(ctx, merchant))

	got, err = store.GetMerchant(ctx, "Starbucks")
	require.NoError(t, err)
	assert.Equal(t, "shopping", got.CategoryID)
}

func TestListActiveMerchants(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
		Name: "Active One", CategoryID: "shopping", IsActive: true,
	}))
	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
		Name: "Retired", CategoryID: "shopping", IsActive: false,
	}))

	merchants, err := store.ListActiveMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, "Active One", merchants[0].Name)

	// A save invalidates the read cache
	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
		Name: "Active Two", CategoryID: "groceries", IsActive: true,
	}))

	merchants, err = store.ListActiveMerchants(ctx)
	require.NoError(t, err)
	assert.Len(t, merchants, 2)
}

func TestDeleteMerchant(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
		Name: "Ephemeral", CategoryID: "shopping", IsActive: true,
	}))

	require.NoError(t, store.DeleteMerchant(ctx, "Ephemeral"))
	assert.ErrorIs(t, store.DeleteMerchant(ctx, "Ephemeral"), common.ErrNotFound)

	_, err := store.GetMerchant(ctx, "Ephemeral")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMerchantValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	assert.Error(t, store.SaveMerchant(ctx, nil))
	assert.Error(t, store.SaveMerchant(ctx, &model.Merchant{Name: "", CategoryID: "shopping"}))
	assert.Error(t, store.SaveMerchant(ctx, &model.Merchant{Name: "No Category"}))
}

func TestRuleRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	amountMin := 10.0
	rule := &model.AutomationRule{
		UserID:          "user-1",
		Name:            "Streaming",
		MerchantPattern: "NETFLIX*",
		AmountMin:       &amountMin,
		SetCategoryID:   "subscriptions",
		AddTagIDs:       []string{"streaming"},
		Priority:        5,
		IsActive:        true,
	}
	require.NoError(t, store.SaveRule(ctx, rule))
	require.NotZero(t, rule.ID)

	got, err := store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Streaming", got.Name)
	assert.Equal(t, "NETFLIX*", got.MerchantPattern)
	require.NotNil(t, got.AmountMin)
	assert.Equal(t, 10.0, *got.AmountMin)
	assert.Nil(t, got.AmountMax)
	assert.Equal(t, model.TypeBoth, got.TransactionType) // defaulted on save
	assert.Equal(t, []string{"streaming"}, got.AddTagIDs)

	// Update through the same call
	rule.Priority = 9
	rule.RenameTo = "Netflix"
	require.NoError(t, store.SaveRule(ctx, rule))

	got, err = store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Priority)
	assert.Equal(t, "Netflix", got.RenameTo)
}

func TestListUserRulesOrdering(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for i, priority := range []int{1, 10, 5} {
		require.NoError(t, store.SaveRule(ctx, &model.AutomationRule{
			UserID:   "user-1",
			Name:     fmt.Sprintf("rule-%d", i+1),
			Priority: priority,
			IsActive: true,
		}))
	}
	require.NoError(t, store.SaveRule(ctx, &model.AutomationRule{
		UserID:   "someone-else",
		Name:     "not mine",
		IsActive: true,
	}))

	userRules, err := store.ListUserRules(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, userRules, 3)
	assert.Equal(t, "rule-2", userRules[0].Name)
	assert.Equal(t, "rule-3", userRules[1].Name)
	assert.Equal(t, "rule-1", userRules[2].Name)
}

func TestIncrementRuleAppliedCount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rule := &model.AutomationRule{UserID: "user-1", Name: "counter", IsActive: true}
	require.NoError(t, store.SaveRule(ctx, rule))

	require.NoError(t, store.IncrementRuleAppliedCount(ctx, rule.ID))
	require.NoError(t, store.IncrementRuleAppliedCount(ctx, rule.ID))

	got, err := store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AppliedCount)

	assert.ErrorIs(t, store.IncrementRuleAppliedCount(ctx, 9999), common.ErrNotFound)
}

func TestDeleteRule(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rule := &model.AutomationRule{UserID: "user-1", Name: "doomed", IsActive: true}
	require.NoError(t, store.SaveRule(ctx, rule))

	require.NoError(t, store.DeleteRule(ctx, rule.ID))
	assert.ErrorIs(t, store.DeleteRule(ctx, rule.ID), common.ErrNotFound)
}

func TestRuleValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	assert.Error(t, store.SaveRule(ctx, nil))
	assert.Error(t, store.SaveRule(ctx, &model.AutomationRule{UserID: "user-1"}))
	assert.Error(t, store.SaveRule(ctx, &model.AutomationRule{Name: "no user"}))

	lo, hi := 100.0, 10.0
	assert.Error(t, store.SaveRule(ctx, &model.AutomationRule{
		UserID: "user-1", Name: "inverted range", AmountMin: &lo, AmountMax: &hi,
	}))
}
