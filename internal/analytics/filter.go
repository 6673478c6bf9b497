// Package analytics turns an in-memory transaction snapshot into the
// aggregates behind the dashboard charts. Every function is pure: callers
// load the snapshot first and pass it in.
package analytics

import (
	"time"

	"fintrack/internal/models"
)

// Period is the aggregation window anchored to a reference date.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// IsValid reports whether p is a supported period.
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// TypeFilter selects income, expense, or both.
type TypeFilter string

const (
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
	TypeAll     TypeFilter = "all"
)

// IsValid reports whether f is a supported type filter.
func (f TypeFilter) IsValid() bool {
	switch f {
	case TypeIncome, TypeExpense, TypeAll:
		return true
	}
	return false
}

// PeriodStart returns the first day of the period containing ref. Weeks start
// on Monday.
func PeriodStart(period Period, ref time.Time) models.Date {
	day := models.DateOf(ref)
	switch period {
	case PeriodWeek:
		offset := (int(day.Time().Weekday()) + 6) % 7
		return models.Date{Date: day.AddDays(-offset)}
	case PeriodYear:
		return models.NewDate(day.Year, time.January, 1)
	default:
		return models.NewDate(day.Year, day.Month, 1)
	}
}

// FilterByPeriod keeps transactions dated on or after the start of the period
// containing ref. Transfers are always dropped: they are not income or
// expense activity.
func FilterByPeriod(transactions []models.Transaction, period Period, ref time.Time) []models.Transaction {
	start := PeriodStart(period, ref)

	out := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.IsTransfer() {
			continue
		}
		if tx.TransactionDate.OnOrAfter(start) {
			out = append(out, tx)
		}
	}
	return out
}

// FilterByType keeps transactions of the selected type. TypeAll returns the
// input unchanged.
func FilterByType(transactions []models.Transaction, typ TypeFilter) []models.Transaction {
	if typ == TypeAll || typ == "" {
		return transactions
	}

	out := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if string(tx.Type) == string(typ) {
			out = append(out, tx)
		}
	}
	return out
}

// ApplyAllFilters applies the period filter and then the type filter.
func ApplyAllFilters(transactions []models.Transaction, period Period, typ TypeFilter, ref time.Time) []models.Transaction {
	return FilterByType(FilterByPeriod(transactions, period, ref), typ)
}
