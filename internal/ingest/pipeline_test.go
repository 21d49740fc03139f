package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finchworks/ledgerline/internal/classify"
	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/rules"
	"github.com/finchworks/ledgerline/internal/service"
	"github.com/finchworks/ledgerline/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	merchants    []model.Merchant
	userRules    []model.AutomationRule
	saved        []model.Transaction
	increments   map[int64]int
	merchantsErr error
	rulesErr     error
	saveErr      error
}

func newMockStorage() *mockStorage {
	return &mockStorage{increments: make(map[int64]int)}
}

func (m *mockStorage) ListActiveMerchants(_ context.Context) ([]model.Merchant, error) {
	if m.merchantsErr != nil {
		return nil, m.merchantsErr
	}
	return m.merchants, nil
}

func (m *mockStorage) ListUserRules(_ context.Context, _ string) ([]model.AutomationRule, error) {
	if m.rulesErr != nil {
		return nil, m.rulesErr
	}
	return m.userRules, nil
}

func (m *mockStorage) IncrementRuleAppliedCount(_ context.Context, ruleID int64) error {
	m.increments[ruleID]++
	return nil
}

func (m *mockStorage) SaveTransactions(_ context.Context, transactions []model.Transaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, transactions...)
	return nil
}

func (m *mockStorage) GetTransactionByID(_ context.Context, _ string) (*model.Transaction, error) {
	return nil, common.ErrNotFound
}

func (m *mockStorage) GetTransactions(_ context.Context, _ service.TransactionFilter) ([]model.Transaction, error) {
	return m.saved, nil
}

func (m *mockStorage) GetMerchant(_ context.Context, _ string) (*model.Merchant, error) {
	return nil, common.ErrNotFound
}

func (m *mockStorage) SaveMerchant(_ context.Context, _ *model.Merchant) error { return nil }
func (m *mockStorage) DeleteMerchant(_ context.Context, _ string) error        { return nil }

func (m *mockStorage) GetRule(_ context.Context, _ int64) (*model.AutomationRule, error) {
	return nil, common.ErrNotFound
}

func (m *mockStorage) SaveRule(_ context.Context, _ *model.AutomationRule) error { return nil }
func (m *mockStorage) DeleteRule(_ context.Context, _ int64) error               { return nil }
func (m *mockStorage) Migrate(_ context.Context) error                           { return nil }
func (m *mockStorage) Close() error                                              { return nil }

func newTestPipeline(store *mockStorage) *Pipeline {
	tax := taxonomy.Default()
	classifier := classify.New(tax, store)
	engine := rules.New(store, tax)
	return New(store, classifier, engine, "test-user")
}

func TestImportFile(t *testing.T) {
	store := newMockStorage()
	pipeline := newTestPipeline(store)

	csv := `Date,Description,Amount
01/15/2024,STARBUCKS STORE 123,-5.25
01/16/2024,PAYROLL DEPOSIT ACME,2500.00
`

	stats, err := pipeline.ImportFile(context.Background(), csv, "checking")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 0, stats.Skipped)

	require.Len(t, store.saved, 2)

	// Input order is preserved and every transaction is fully populated
	first := store.saved[0]
	assert.Equal(t, "STARBUCKS STORE 123", first.Name)
	assert.Equal(t, "food_drink", first.CategoryID)
	assert.Equal(t, model.SourceMerchantTable, first.Source)
	assert.Equal(t, "checking", first.AccountID)
	assert.Equal(t, "test-user", first.UserID)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.Hash)

	second := store.saved[1]
	assert.Equal(t, "paycheck", second.CategoryID)
	assert.Equal(t, model.SourceKeywordTable, second.Source)
}

func TestImportFileEmpty(t *testing.T) {
	pipeline := newTestPipeline(newMockStorage())

	_, err := pipeline.ImportFile(context.Background(), "", "checking")
	assert.ErrorIs(t, err, common.ErrNoTransactions)

	_, err = pipeline.ImportFile(context.Background(), "Date,Description,Amount\n", "checking")
	assert.ErrorIs(t, err, common.ErrNoTransactions)
}

func TestImportTransactionsEmpty(t *testing.T) {
	pipeline := newTestPipeline(newMockStorage())

	_, err := pipeline.ImportTransactions(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
}

func TestImportTransactionsDeduplicatesWithinBatch(t *testing.T) {
	store := newMockStorage()
	pipeline := newTestPipeline(store)

	txn := model.Transaction{
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Name:         "STARBUCKS",
		MerchantName: "STARBUCKS",
		RawAmount:    -5.25,
		Amount:       5.25,
		AccountID:    "checking",
	}

	stats, err := pipeline.ImportTransactions(context.Background(), []model.Transaction{txn, txn})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)
	assert.Len(t, store.saved, 1)
}

func TestImportTransactionsAppliesRules(t *testing.T) {
	store := newMockStorage()
	store.userRules = []model.AutomationRule{
		{
			ID:              9,
			Name:            "normalize starbucks",
			MerchantPattern: "STARBUCKS*",
			RenameTo:        "Starbucks",
			AddTagIDs:       []string{"coffee"},
			IsActive:        true,
		},
	}
	pipeline := newTestPipeline(store)

	csv := `Date,Description,Amount
01/15/2024,STARBUCKS STORE 123,-5.25
01/16/2024,SAFEWAY 456,-80.00
`

	stats, err := pipeline.ImportFile(context.Background(), csv, "checking")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.RulesApplied)
	assert.Equal(t, 1, store.increments[9])

	require.Len(t, store.saved, 2)
	assert.Equal(t, "Starbucks", store.saved[0].Name)
	assert.Equal(t, []string{"coffee"}, store.saved[0].Tags)
	assert.Equal(t, "SAFEWAY 456", store.saved[1].Name)
}

func TestImportTransactionsFillsMissingFields(t *testing.T) {
	store := newMockStorage()
	pipeline := newTestPipeline(store)

	txn := model.Transaction{
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Name:         "NETFLIX.COM",
		MerchantName: "NETFLIX.COM",
		RawAmount:    -15.49,
		Amount:       15.49,
		AccountID:    "card",
	}

	_, err := pipeline.ImportTransactions(context.Background(), []model.Transaction{txn})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.NotEmpty(t, saved.ID)
	assert.NotEmpty(t, saved.Hash)
	assert.Equal(t, "test-user", saved.UserID)
}

func TestImportTransactionsRuleLoadFailure(t *testing.T) {
	store := newMockStorage()
	store.rulesErr = errors.New("database is locked")
	pipeline := newTestPipeline(store)

	txn := model.Transaction{
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Name:      "STARBUCKS",
		RawAmount: -5.25,
		Amount:    5.25,
	}

	_, err := pipeline.ImportTransactions(context.Background(), []model.Transaction{txn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load automation rules")
}

func TestImportTransactionsClassifierFailure(t *testing.T) {
	store := newMockStorage()
	store.merchantsErr = errors.New("database is locked")
	pipeline := newTestPipeline(store)

	txn := model.Transaction{
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Name:      "STARBUCKS",
		RawAmount: -5.25,
		Amount:    5.25,
	}

	_, err := pipeline.ImportTransactions(context.Background(), []model.Transaction{txn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorization failed")
	assert.Empty(t, store.saved)
}

func TestImportTransactionsSaveFailure(t *testing.T) {
	store := newMockStorage()
	store.saveErr = errors.New("disk full")
	pipeline := newTestPipeline(store)

	txn := model.Transaction{
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Name:      "STARBUCKS",
		RawAmount: -5.25,
		Amount:    5.25,
	}

	_, err := pipeline.ImportTransactions(context.Background(), []model.Transaction{txn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save transactions")
}

func TestImportProgressCallback(t *testing.T) {
	store := newMockStorage()
	pipeline := newTestPipeline(store)

	var calls []int
	pipeline.Progress = func(processed, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, processed)
	}

	csv := `Date,Description,Amount
01/15/2024,ONE,-1.00
01/16/2024,TWO,-2.00
01/17/2024,THREE,-3.00
`

	_, err := pipeline.ImportFile(context.Background(), csv, "checking")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
}
