// cmd/bot/main_test.go
package main

import (
	"context"
	"testing"
	"time"

	"expense-tracker/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotStore struct {
	categories []domain.Category
	created    []domain.Expense
	recent     []domain.RecentExpense
	facts      []domain.ExpenseFact
}

func (f *fakeBotStore) CreateExpense(_ context.Context, e domain.Expense) (domain.Expense, error) {
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeBotStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeBotStore) RecentExpenses(_ context.Context, limit int) ([]domain.RecentExpense, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeBotStore) ExpenseFacts(_ context.Context) ([]domain.ExpenseFact, error) {
	return f.facts, nil
}

func newBotStore() *fakeBotStore {
	return &fakeBotStore{
		categories: []domain.Category{
			{CategoryID: uuid.New(), Name: "Food", IsActive: true},
		},
	}
}

func TestHandleAddCreatesExpense(t *testing.T) {
	store := newBotStore()

	reply, err := handleAdd(store, uuid.New(), "12.50 food Team lunch", time.UTC)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, "Team lunch", created.Subject)
	assert.Equal(t, 12.50, created.Amount)
	assert.Equal(t, store.categories[0].CategoryID, created.CategoryID)
	assert.Contains(t, reply, "Saved")
}

func TestHandleAddEnforcesSubjectRules(t *testing.T) {
	store := newBotStore()

	// a one-character subject is rejected like it would be over HTTP
	reply, err := handleAdd(store, uuid.New(), "12.50 food X", time.UTC)
	require.NoError(t, err)

	assert.Empty(t, store.created)
	assert.Contains(t, reply, "subject")
}

func TestHandleAddRejectsNonPositiveAmount(t *testing.T) {
	store := newBotStore()

	for _, input := range []string{"-5 food Team lunch", "0 food Team lunch"} {
		_, err := handleAdd(store, uuid.New(), input, time.UTC)
		require.NoError(t, err)
	}
	assert.Empty(t, store.created)
}

func TestHandleAddUnknownCategory(t *testing.T) {
	store := newBotStore()

	reply, err := handleAdd(store, uuid.New(), "12.50 gadgets Team lunch", time.UTC)
	require.NoError(t, err)

	assert.Empty(t, store.created)
	assert.Contains(t, reply, "Unknown category")
}

func TestHandleYears(t *testing.T) {
	store := newBotStore()
	store.facts = []domain.ExpenseFact{
		{Date: domain.NewDate(2023, time.May, 2), Amount: 10, Category: "Food"},
		{Date: domain.NewDate(2024, time.August, 5), Amount: 20, Category: "Food"},
	}

	reply, err := handleYears(store)
	require.NoError(t, err)
	assert.Contains(t, reply, "2024, 2023")
}
