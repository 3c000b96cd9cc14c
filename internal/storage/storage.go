// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"expense-tracker/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no row matches the requested identifier.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on unique constraint violations
	// (username, category name).
	ErrDuplicate = errors.New("already exists")
)

// SortOrder for expense_date in list queries.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams carries pagination, search and sort options for expense lists.
// Page is 1-indexed.
type ListParams struct {
	Page   int
	Size   int
	Search string
	Sort   SortOrder
}

type UserStorage interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type CategoryStorage interface {
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	CategoryByID(ctx context.Context, id uuid.UUID) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type ExpenseStorage interface {
	CreateExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	ExpenseByID(ctx context.Context, id uuid.UUID) (domain.Expense, error)
	// ListExpenses returns one page of expenses plus the total row count
	// for the same filter.
	ListExpenses(ctx context.Context, params ListParams) ([]domain.Expense, int, error)
	AllExpenses(ctx context.Context) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	// ExpenseFacts returns every (date, amount, category) observation,
	// across all users and years, for the summary engine.
	ExpenseFacts(ctx context.Context) ([]domain.ExpenseFact, error)
	// RecentExpenses returns the most recently dated expenses joined with
	// username and category name. Tie order between equal dates is whatever
	// the database returns.
	RecentExpenses(ctx context.Context, limit int) ([]domain.RecentExpense, error)
}
