// internal/domain/models.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Date is a calendar date without a time component. Expense bucketing
// (months, quarters, years) always works on Date, never on timestamps.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type User struct {
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	Timestamp      time.Time `json:"timestamp"`
}

type Category struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
}

type Expense struct {
	ExpenseID    uuid.UUID `json:"expenses_id"`
	UserID       uuid.UUID `json:"user_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	Subject      string    `json:"subject"`
	ExpenseDate  Date      `json:"expense_date"`
	Amount       float64   `json:"amount"`
	Reimbursable bool      `json:"reimbursable"`
	Description  *string   `json:"description"`
	InvoiceImage *string   `json:"invoice_image"`
	Employee     *string   `json:"employee"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExpenseFact is the minimal observation the summary engine works on.
type ExpenseFact struct {
	Date     Date
	Amount   float64
	Category string
}

// GeneralSummary is the four-bucket relative-time aggregate plus the
// yearly total. All values are rounded to two decimal places.
type GeneralSummary struct {
	TotalSpending float64 `json:"total_spending"`
	ThisMonth     float64 `json:"this_month"`
	LastMonth     float64 `json:"last_month"`
	ThisQuarter   float64 `json:"this_quarter"`
	LastQuarter   float64 `json:"last_quarter"`
}

type CategorySpending struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type MonthSpending struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type RecentExpense struct {
	Subject      string  `json:"subject"`
	Amount       float64 `json:"amount"`
	AddedBy      string  `json:"added_by"`
	CategoryName string  `json:"category_name"`
}

// ExpensePage mirrors the classic 1-indexed page envelope.
type ExpensePage struct {
	Items []Expense `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
}
