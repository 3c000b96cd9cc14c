// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

const uniqueViolation = "23505"

func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.ErrDuplicate
	}
	return err
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (user_id, username, hashed_password, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, username, hashed_password, is_active, timestamp
	`, user.UserID, user.Username, user.HashedPassword, user.IsActive).Scan(
		&user.UserID, &user.Username, &user.HashedPassword, &user.IsActive, &user.Timestamp)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", translateErr(err))
	}
	return user, nil
}

func (s *Storage) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		SELECT user_id, username, hashed_password, is_active, timestamp
		FROM users WHERE username = $1
	`, username).Scan(&user.UserID, &user.Username, &user.HashedPassword, &user.IsActive, &user.Timestamp)
	if err != nil {
		return domain.User{}, fmt.Errorf("find user %q: %w", username, translateErr(err))
	}
	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		SELECT user_id, username, hashed_password, is_active, timestamp
		FROM users WHERE user_id = $1
	`, id).Scan(&user.UserID, &user.Username, &user.HashedPassword, &user.IsActive, &user.Timestamp)
	if err != nil {
		return domain.User{}, fmt.Errorf("find user %s: %w", id, translateErr(err))
	}
	return user, nil
}

// === CategoryStorage ===

func (s *Storage) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO category (category_id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING category_id, name, is_active
	`, category.CategoryID, category.Name, category.IsActive).Scan(
		&category.CategoryID, &category.Name, &category.IsActive)
	if err != nil {
		return domain.Category{}, fmt.Errorf("create category %q: %w", category.Name, translateErr(err))
	}
	return category, nil
}

func (s *Storage) CategoryByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	var cat domain.Category
	err := s.db.QueryRow(ctx, `
		SELECT category_id, name, is_active FROM category WHERE category_id = $1
	`, id).Scan(&cat.CategoryID, &cat.Name, &cat.IsActive)
	if err != nil {
		return domain.Category{}, fmt.Errorf("find category %s: %w", id, translateErr(err))
	}
	return cat, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT category_id, name, is_active FROM category ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.CategoryID, &cat.Name, &cat.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Storage) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	err := s.db.QueryRow(ctx, `
		UPDATE category SET name = $2, is_active = $3
		WHERE category_id = $1
		RETURNING category_id, name, is_active
	`, category.CategoryID, category.Name, category.IsActive).Scan(
		&category.CategoryID, &category.Name, &category.IsActive)
	if err != nil {
		return domain.Category{}, fmt.Errorf("update category %s: %w", category.CategoryID, translateErr(err))
	}
	return category, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM category WHERE category_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// === ExpenseStorage ===

const expenseColumns = `expenses_id, user_id, category_id, subject, expense_date,
	amount, reimbursable, description, invoice_image, employee, updated_at`

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(&e.ExpenseID, &e.UserID, &e.CategoryID, &e.Subject, &e.ExpenseDate.Time,
		&e.Amount, &e.Reimbursable, &e.Description, &e.InvoiceImage, &e.Employee, &e.UpdatedAt)
	return e, err
}

func (s *Storage) CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO expenses (expenses_id, user_id, category_id, subject, expense_date,
			amount, reimbursable, description, invoice_image, employee, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+expenseColumns,
		e.ExpenseID, e.UserID, e.CategoryID, e.Subject, e.ExpenseDate.Time,
		e.Amount, e.Reimbursable, e.Description, e.InvoiceImage, e.Employee, e.UpdatedAt)
	created, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("create expense: %w", translateErr(err))
	}
	slog.Debug("Expense created", "expenses_id", created.ExpenseID, "subject", created.Subject)
	return created, nil
}

func (s *Storage) ExpenseByID(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	row := s.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE expenses_id = $1`, id)
	e, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("find expense %s: %w", id, translateErr(err))
	}
	return e, nil
}

func (s *Storage) ListExpenses(ctx context.Context, params storage.ListParams) ([]domain.Expense, int, error) {
	where := ""
	args := []any{}
	if params.Search != "" {
		where = `WHERE subject ILIKE '%' || $1 || '%' OR employee ILIKE '%' || $1 || '%'`
		args = append(args, params.Search)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM expenses `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	order := "DESC"
	if params.Sort == storage.SortAsc {
		order = "ASC"
	}
	limitPos := len(args) + 1
	args = append(args, params.Size, (params.Page-1)*params.Size)

	query := fmt.Sprintf(`SELECT %s FROM expenses %s ORDER BY expense_date %s LIMIT $%d OFFSET $%d`,
		expenseColumns, where, order, limitPos, limitPos+1)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}

func (s *Storage) AllExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`)
	if err != nil {
		return nil, fmt.Errorf("list all expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Storage) UpdateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE expenses
		SET category_id = $2, subject = $3, expense_date = $4, amount = $5,
			reimbursable = $6, description = $7, invoice_image = $8,
			employee = $9, updated_at = $10
		WHERE expenses_id = $1
		RETURNING `+expenseColumns,
		e.ExpenseID, e.CategoryID, e.Subject, e.ExpenseDate.Time, e.Amount,
		e.Reimbursable, e.Description, e.InvoiceImage, e.Employee, e.UpdatedAt)
	updated, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("update expense %s: %w", e.ExpenseID, translateErr(err))
	}
	return updated, nil
}

func (s *Storage) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE expenses_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete expense %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) ExpenseFacts(ctx context.Context) ([]domain.ExpenseFact, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.expense_date, e.amount, c.name
		FROM expenses e
		JOIN category c ON c.category_id = e.category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query expense facts: %w", err)
	}
	defer rows.Close()

	var facts []domain.ExpenseFact
	for rows.Next() {
		var f domain.ExpenseFact
		if err := rows.Scan(&f.Date.Time, &f.Amount, &f.Category); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (s *Storage) RecentExpenses(ctx context.Context, limit int) ([]domain.RecentExpense, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.subject, e.amount, u.username, c.name
		FROM expenses e
		JOIN users u ON u.user_id = e.user_id
		JOIN category c ON c.category_id = e.category_id
		ORDER BY e.expense_date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent expenses: %w", err)
	}
	defer rows.Close()

	var recent []domain.RecentExpense
	for rows.Next() {
		var r domain.RecentExpense
		if err := rows.Scan(&r.Subject, &r.Amount, &r.AddedBy, &r.CategoryName); err != nil {
			return nil, fmt.Errorf("scan recent expense: %w", err)
		}
		recent = append(recent, r)
	}
	return recent, rows.Err()
}
