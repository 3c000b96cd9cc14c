package summary

import (
	"testing"
	"time"

	"expense-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fact(year int, month time.Month, day int, amount float64, category string) domain.ExpenseFact {
	return domain.ExpenseFact{
		Date:     domain.NewDate(year, month, day),
		Amount:   amount,
		Category: category,
	}
}

func TestGeneralSummaryFixture(t *testing.T) {
	// Reference clock fixed inside 2024 with current_month=8, current_quarter=3.
	now := time.Date(2024, time.August, 20, 10, 0, 0, 0, time.UTC)

	facts := []domain.ExpenseFact{
		fact(2024, time.January, 15, 100, "Travel"),
		fact(2024, time.February, 20, 200, "Travel"),
		fact(2024, time.March, 25, 150, "Office"),
		fact(2024, time.April, 10, 300, "Office"),
		fact(2024, time.July, 5, 250, "Travel"),
		fact(2024, time.August, 15, 50, "Meals"),
	}

	got := GeneralSummary(facts, 2024, now)

	assert.Equal(t, 1050.00, got.TotalSpending)
	assert.Equal(t, 50.00, got.ThisMonth)    // Aug
	assert.Equal(t, 250.00, got.LastMonth)   // Jul
	assert.Equal(t, 300.00, got.ThisQuarter) // Jul-Sep
	assert.Equal(t, 300.00, got.LastQuarter) // Apr-Jun
}

func TestGeneralSummaryJanuaryRollover(t *testing.T) {
	// In January the previous month is December of the previous year and
	// the previous quarter is Q4 of the previous year.
	now := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	facts := []domain.ExpenseFact{
		fact(2025, time.January, 5, 40, "Meals"),
		fact(2024, time.December, 20, 75, "Meals"),
		fact(2024, time.November, 2, 25, "Travel"),
		fact(2024, time.June, 1, 500, "Travel"),
	}

	got := GeneralSummary(facts, 2025, now)

	assert.Equal(t, 40.00, got.TotalSpending)
	assert.Equal(t, 40.00, got.ThisMonth)
	assert.Equal(t, 75.00, got.LastMonth)    // Dec 2024
	assert.Equal(t, 40.00, got.ThisQuarter)  // Q1 2025
	assert.Equal(t, 100.00, got.LastQuarter) // Q4 2024
}

func TestGeneralSummaryPastYearUsesCurrentCalendar(t *testing.T) {
	// Summarizing a past year keeps the relative buckets anchored to the
	// current calendar, so they only pick up the past year's rows that fall
	// in the current month/quarter numbers.
	now := time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC)

	facts := []domain.ExpenseFact{
		fact(2023, time.March, 10, 120, "Office"),
		fact(2023, time.August, 1, 80, "Office"),
		fact(2025, time.April, 1, 999, "Travel"), // current year, Q2 = last quarter
	}

	got := GeneralSummary(facts, 2023, now)

	assert.Equal(t, 200.00, got.TotalSpending)
	assert.Equal(t, 80.00, got.ThisMonth)   // Aug 2023
	assert.Equal(t, 0.00, got.LastMonth)    // Jul 2023, nothing there
	assert.Equal(t, 80.00, got.ThisQuarter) // Q3 2023
	// last_quarter is anchored to 2025, not 2023.
	assert.Equal(t, 999.00, got.LastQuarter)
}

func TestGeneralSummaryNoData(t *testing.T) {
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	got := GeneralSummary(nil, 2024, now)
	assert.Equal(t, domain.GeneralSummary{}, got)
}

func TestGeneralSummaryRounding(t *testing.T) {
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	facts := []domain.ExpenseFact{
		fact(2024, time.May, 1, 0.105, "Meals"),
		fact(2024, time.May, 2, 0.105, "Meals"),
		fact(2024, time.May, 3, 0.105, "Meals"),
	}
	got := GeneralSummary(facts, 2024, now)
	assert.Equal(t, 0.32, got.TotalSpending)
}

func TestQuarter(t *testing.T) {
	assert.Equal(t, 1, Quarter(time.January))
	assert.Equal(t, 1, Quarter(time.March))
	assert.Equal(t, 2, Quarter(time.April))
	assert.Equal(t, 3, Quarter(time.September))
	assert.Equal(t, 4, Quarter(time.October))
	assert.Equal(t, 4, Quarter(time.December))
}

func TestByCategory(t *testing.T) {
	facts := []domain.ExpenseFact{
		fact(2024, time.January, 1, 10, "Meals"),
		fact(2024, time.February, 1, 20, "Meals"),
		fact(2024, time.March, 1, 30, "Meals"),
		fact(2024, time.April, 1, 40, "Meals"),
		fact(2024, time.May, 1, 50, "Meals"),
		fact(2024, time.June, 1, 5, "Travel"),
		fact(2023, time.June, 1, 1000, "Travel"), // other year, ignored
	}

	got := ByCategory(facts, 2024)

	require.Len(t, got, 2)
	assert.Equal(t, domain.CategorySpending{Category: "Meals", Amount: 150}, got[0])
	assert.Equal(t, domain.CategorySpending{Category: "Travel", Amount: 5}, got[1])
}

func TestByCategoryEmptyYear(t *testing.T) {
	facts := []domain.ExpenseFact{fact(2023, time.June, 1, 10, "Travel")}
	assert.Empty(t, ByCategory(facts, 2024))
}

func TestLastFiveMonthsTakesMostRecentFive(t *testing.T) {
	facts := []domain.ExpenseFact{
		fact(2024, time.January, 10, 100, "a"),
		fact(2024, time.February, 10, 200, "a"),
		fact(2024, time.March, 10, 300, "a"),
		fact(2024, time.April, 10, 400, "a"),
		fact(2024, time.July, 10, 500, "a"),
		fact(2024, time.August, 10, 600, "a"),
		fact(2024, time.August, 20, 40, "b"), // same month, summed
	}

	got := LastFiveMonths(facts, 2024)

	require.Len(t, got, 5)
	assert.Equal(t, []domain.MonthSpending{
		{Month: "Aug", Amount: 640},
		{Month: "Jul", Amount: 500},
		{Month: "Apr", Amount: 400},
		{Month: "Mar", Amount: 300},
		{Month: "Feb", Amount: 200},
	}, got)
}

func TestLastFiveMonthsFewerThanFive(t *testing.T) {
	facts := []domain.ExpenseFact{
		fact(2024, time.March, 1, 10, "a"),
		fact(2024, time.November, 1, 20, "a"),
	}

	got := LastFiveMonths(facts, 2024)

	require.Len(t, got, 2)
	assert.Equal(t, "Nov", got[0].Month)
	assert.Equal(t, "Mar", got[1].Month)
}

func TestLastFiveMonthsNoData(t *testing.T) {
	assert.Empty(t, LastFiveMonths(nil, 2024))
}

func TestAvailableYears(t *testing.T) {
	facts := []domain.ExpenseFact{
		fact(2022, time.May, 1, 1, "a"),
		fact(2024, time.May, 1, 1, "a"),
		fact(2023, time.May, 1, 1, "a"),
		fact(2024, time.June, 1, 1, "a"),
		fact(2022, time.July, 1, 1, "a"),
	}

	assert.Equal(t, []int{2024, 2023, 2022}, AvailableYears(facts))
	assert.Empty(t, AvailableYears(nil))
}
