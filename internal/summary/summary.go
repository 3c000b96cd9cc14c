// Package summary turns (date, amount) observations into calendar-relative
// aggregates. All functions are pure: the reference time is passed in, so
// "this month" and "this quarter" are decided by the caller's clock, not by
// the year being summarized.
package summary

import (
	"math"
	"sort"
	"time"

	"expense-tracker/internal/domain"
)

// Quarter returns the 1-4 quarter bucket for a month (Q1 Jan-Mar ... Q4 Oct-Dec).
func Quarter(month time.Month) int {
	return (int(month)-1)/3 + 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func inQuarter(month time.Month, quarter int) bool {
	q := Quarter(month)
	return q == quarter
}

// GeneralSummary computes the yearly total plus the four relative buckets
// for the requested year, using now as the reference point.
//
// The relative buckets deliberately mix the requested year with the current
// calendar: this_month and this_quarter filter the requested year by the
// current month/quarter number, while last_quarter is anchored to the current
// year regardless of the year requested. Summaries of past years therefore
// report (usually zero) relative buckets rather than that year's own months.
// This matches the long-standing behavior the frontend depends on.
func GeneralSummary(facts []domain.ExpenseFact, year int, now time.Time) domain.GeneralSummary {
	currentYear := now.Year()
	currentMonth := now.Month()
	currentQuarter := Quarter(currentMonth)

	lastMonth := currentMonth - 1
	lastMonthYear := year
	if currentMonth == time.January {
		lastMonth = time.December
		lastMonthYear = currentYear - 1
	}

	lastQuarter := currentQuarter - 1
	lastQuarterYear := currentYear
	if lastQuarter == 0 {
		lastQuarter = 4
		lastQuarterYear = currentYear - 1
	}

	var total, thisMonth, lastMonthSum, thisQuarter, lastQuarterSum float64
	for _, f := range facts {
		y, m := f.Date.Year(), f.Date.Month()
		if y == year {
			total += f.Amount
			if m == currentMonth {
				thisMonth += f.Amount
			}
			if inQuarter(m, currentQuarter) {
				thisQuarter += f.Amount
			}
		}
		if y == lastMonthYear && m == lastMonth {
			lastMonthSum += f.Amount
		}
		if y == lastQuarterYear && inQuarter(m, lastQuarter) {
			lastQuarterSum += f.Amount
		}
	}

	return domain.GeneralSummary{
		TotalSpending: round2(total),
		ThisMonth:     round2(thisMonth),
		LastMonth:     round2(lastMonthSum),
		ThisQuarter:   round2(thisQuarter),
		LastQuarter:   round2(lastQuarterSum),
	}
}

// ByCategory sums the requested year's expenses per category, sorted by
// amount descending. Categories without expenses in that year are omitted.
func ByCategory(facts []domain.ExpenseFact, year int) []domain.CategorySpending {
	totals := make(map[string]float64)
	for _, f := range facts {
		if f.Date.Year() == year {
			totals[f.Category] += f.Amount
		}
	}

	result := make([]domain.CategorySpending, 0, len(totals))
	for name, amount := range totals {
		result = append(result, domain.CategorySpending{Category: name, Amount: round2(amount)})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount > result[j].Amount
	})
	return result
}

// LastFiveMonths groups the requested year's expenses by month, keeps the
// five highest month numbers that have data, and returns them in descending
// month order with 3-letter labels. Fewer than five groups means a shorter
// list; no data at all means an empty list.
func LastFiveMonths(facts []domain.ExpenseFact, year int) []domain.MonthSpending {
	totals := make(map[time.Month]float64)
	for _, f := range facts {
		if f.Date.Year() == year {
			totals[f.Date.Month()] += f.Amount
		}
	}

	months := make([]time.Month, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] > months[j] })
	if len(months) > 5 {
		months = months[:5]
	}

	result := make([]domain.MonthSpending, 0, len(months))
	for _, m := range months {
		result = append(result, domain.MonthSpending{
			Month:  m.String()[:3],
			Amount: round2(totals[m]),
		})
	}
	return result
}

// AvailableYears returns the distinct calendar years present in the facts,
// newest first.
func AvailableYears(facts []domain.ExpenseFact) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, f := range facts {
		y := f.Date.Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
