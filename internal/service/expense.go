// internal/service/expense.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"
	"expense-tracker/internal/summary"

	"github.com/google/uuid"
)

var (
	// ErrNoData means there is no expense data at all for the requested view.
	ErrNoData = errors.New("no expense data available")
	// ErrYearNotAvailable means an explicitly requested year has no expenses.
	ErrYearNotAvailable = errors.New("no data available for year")
)

// BlobStore is the attachment storage the service writes receipts to.
type BlobStore interface {
	Save(data []byte, originalName string) (string, error)
	Delete(name string) error
	Exists(name string) bool
}

// Upload is an attachment received alongside a create or update request.
type Upload struct {
	Filename string
	Data     []byte
}

type CreateExpenseInput struct {
	CategoryID   uuid.UUID
	Subject      string
	ExpenseDate  domain.Date
	Amount       float64
	Reimbursable bool
	Description  *string
	Employee     *string
}

// UpdateExpenseInput carries a partial update: nil fields are left untouched.
type UpdateExpenseInput struct {
	CategoryID   *uuid.UUID
	Subject      *string
	ExpenseDate  *domain.Date
	Amount       *float64
	Reimbursable *bool
	Description  *string
	Employee     *string
}

// maxPageSize caps list queries regardless of the requested size.
const maxPageSize = 100

// ExpenseService orchestrates expense rows, their attachments and the
// summary computations. The clock is injected so summaries are testable.
type ExpenseService struct {
	store storage.ExpenseStorage
	files BlobStore
	now   func() time.Time
}

func NewExpenseService(store storage.ExpenseStorage, files BlobStore, now func() time.Time) *ExpenseService {
	return &ExpenseService{store: store, files: files, now: now}
}

// Create persists a new expense. The attachment, if any, is written first;
// if the row insert then fails the freshly written file is removed again so
// a failed create does not leave an orphan behind.
func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, in CreateExpenseInput, upload *Upload) (domain.Expense, error) {
	var invoiceImage *string
	if upload != nil && upload.Filename != "" {
		name, err := s.files.Save(upload.Data, upload.Filename)
		if err != nil {
			return domain.Expense{}, fmt.Errorf("save invoice image: %w", err)
		}
		invoiceImage = &name
	}

	expense := domain.Expense{
		ExpenseID:    uuid.New(),
		UserID:       userID,
		CategoryID:   in.CategoryID,
		Subject:      in.Subject,
		ExpenseDate:  in.ExpenseDate,
		Amount:       in.Amount,
		Reimbursable: in.Reimbursable,
		Description:  in.Description,
		InvoiceImage: invoiceImage,
		Employee:     in.Employee,
		UpdatedAt:    s.now(),
	}

	created, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		if invoiceImage != nil {
			if delErr := s.files.Delete(*invoiceImage); delErr != nil {
				slog.Error("Orphaned invoice image could not be removed", "filename", *invoiceImage, "error", delErr)
			}
		}
		return domain.Expense{}, err
	}
	return created, nil
}

func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	return s.store.ExpenseByID(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, params storage.ListParams) (domain.ExpensePage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Size < 1 {
		params.Size = 50
	}
	if params.Size > maxPageSize {
		params.Size = maxPageSize
	}
	if params.Sort != storage.SortAsc {
		params.Sort = storage.SortDesc
	}

	items, total, err := s.store.ListExpenses(ctx, params)
	if err != nil {
		return domain.ExpensePage{}, err
	}
	if items == nil {
		items = []domain.Expense{}
	}

	pages := (total + params.Size - 1) / params.Size
	return domain.ExpensePage{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Pages: pages,
	}, nil
}

// ListAll returns every expense, for export. An empty table is a not-found.
func (s *ExpenseService) ListAll(ctx context.Context) ([]domain.Expense, error) {
	expenses, err := s.store.AllExpenses(ctx)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("list all expenses: %w", storage.ErrNotFound)
	}
	return expenses, nil
}

// Update applies the non-nil fields of in to the stored expense. A new
// attachment replaces the old one: the previous file is deleted from disk
// before the new one is written, matching the create path's naming scheme.
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, in UpdateExpenseInput, upload *Upload) (domain.Expense, error) {
	expense, err := s.store.ExpenseByID(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}

	if in.CategoryID != nil {
		expense.CategoryID = *in.CategoryID
	}
	if in.Subject != nil {
		expense.Subject = *in.Subject
	}
	if in.ExpenseDate != nil {
		expense.ExpenseDate = *in.ExpenseDate
	}
	if in.Amount != nil {
		expense.Amount = *in.Amount
	}
	if in.Reimbursable != nil {
		expense.Reimbursable = *in.Reimbursable
	}
	if in.Description != nil {
		expense.Description = in.Description
	}
	if in.Employee != nil {
		expense.Employee = in.Employee
	}

	if upload != nil && upload.Filename != "" {
		if expense.InvoiceImage != nil {
			if err := s.files.Delete(*expense.InvoiceImage); err != nil {
				slog.Error("Old invoice image could not be removed", "filename", *expense.InvoiceImage, "error", err)
			}
		}
		name, err := s.files.Save(upload.Data, upload.Filename)
		if err != nil {
			return domain.Expense{}, fmt.Errorf("save invoice image: %w", err)
		}
		expense.InvoiceImage = &name
	}

	expense.UpdatedAt = s.now()
	return s.store.UpdateExpense(ctx, expense)
}

// Delete removes the row and its attachment. A filesystem error while
// deleting the attachment fails the whole operation.
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := s.store.ExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense.InvoiceImage != nil {
		if err := s.files.Delete(*expense.InvoiceImage); err != nil {
			return fmt.Errorf("delete invoice image: %w", err)
		}
	}
	return s.store.DeleteExpense(ctx, id)
}

// GeneralSummary computes the four-bucket summary for the requested year,
// defaulting to the most recent year with data. The returned int is the year
// actually summarized.
func (s *ExpenseService) GeneralSummary(ctx context.Context, year *int) (domain.GeneralSummary, int, error) {
	facts, resolved, err := s.factsForYear(ctx, year)
	if err != nil {
		return domain.GeneralSummary{}, 0, err
	}
	return summary.GeneralSummary(facts, resolved, s.now()), resolved, nil
}

// ByCategory sums the year's spending per category, largest first.
func (s *ExpenseService) ByCategory(ctx context.Context, year *int) ([]domain.CategorySpending, int, error) {
	facts, resolved, err := s.factsForYear(ctx, year)
	if err != nil {
		return nil, 0, err
	}
	return summary.ByCategory(facts, resolved), resolved, nil
}

// LastFiveMonths returns up to five month buckets for the year, newest
// month first. No data for the year at all is ErrNoData.
func (s *ExpenseService) LastFiveMonths(ctx context.Context, year int) ([]domain.MonthSpending, error) {
	facts, err := s.store.ExpenseFacts(ctx)
	if err != nil {
		return nil, err
	}
	result := summary.LastFiveMonths(facts, year)
	if len(result) == 0 {
		return nil, ErrNoData
	}
	return result, nil
}

// AvailableYears lists the distinct years with expense data, newest first.
func (s *ExpenseService) AvailableYears(ctx context.Context) ([]int, error) {
	facts, err := s.store.ExpenseFacts(ctx)
	if err != nil {
		return nil, err
	}
	years := summary.AvailableYears(facts)
	if years == nil {
		years = []int{}
	}
	return years, nil
}

// Recent returns the five most recently dated expenses across all users.
func (s *ExpenseService) Recent(ctx context.Context) ([]domain.RecentExpense, error) {
	recent, err := s.store.RecentExpenses(ctx, 5)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, ErrNoData
	}
	return recent, nil
}

// factsForYear loads all facts and resolves the year to summarize: the most
// recent year with data when year is nil, otherwise the requested year,
// which must be present in the data.
func (s *ExpenseService) factsForYear(ctx context.Context, year *int) ([]domain.ExpenseFact, int, error) {
	facts, err := s.store.ExpenseFacts(ctx)
	if err != nil {
		return nil, 0, err
	}
	years := summary.AvailableYears(facts)
	if len(years) == 0 {
		return nil, 0, ErrNoData
	}
	if year == nil {
		return facts, years[0], nil
	}
	for _, y := range years {
		if y == *year {
			return facts, *year, nil
		}
	}
	return nil, 0, fmt.Errorf("%w %d", ErrYearNotAvailable, *year)
}
