package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/money"
)

// UnknownCategory is the bucket key for transactions without a category.
const UnknownCategory = "Unknown"

// CategoryTotal is the summed amount of one category bucket.
type CategoryTotal struct {
	CategoryID string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	LatestDate models.Date     `json:"date"`
}

// DayTotal is one calendar day of a top-N ranking.
type DayTotal struct {
	Date             models.Date     `json:"date"`
	Total            decimal.Decimal `json:"total"`
	DominantCategory string          `json:"dominant_category"`
}

// TimelineItem is a single transaction inside a timeline day.
type TimelineItem struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"category_id"`
}

// TimelineDay groups every transaction of one calendar day.
type TimelineDay struct {
	Date  models.Date     `json:"date"`
	Total decimal.Decimal `json:"total"`
	Items []TimelineItem  `json:"items"`
}

// Totals holds income and expense sums. Transfers never count.
type Totals struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

func categoryKey(tx *models.Transaction) string {
	if tx.CategoryID == nil || *tx.CategoryID == "" {
		return UnknownCategory
	}
	return *tx.CategoryID
}

// GroupByCategory sums amounts per category and tracks the latest date seen
// in each bucket. Results are ordered by amount, largest first; equal sums
// keep the order in which their category first appeared.
func GroupByCategory(transactions []models.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var groups []CategoryTotal

	for i := range transactions {
		tx := &transactions[i]
		key := categoryKey(tx)

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, CategoryTotal{CategoryID: key, Amount: decimal.Zero, LatestDate: tx.TransactionDate})
		}

		g := &groups[pos]
		g.Amount = g.Amount.Add(tx.Amount)
		if tx.TransactionDate.After(g.LatestDate.Date) {
			g.LatestDate = tx.TransactionDate
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.GreaterThan(groups[j].Amount)
	})
	return groups
}

// TopNDays ranks calendar days by their summed amount and returns at most n
// of them, largest first. Each day names its dominant category: the one with
// the largest in-day sum, the first one encountered winning ties.
func TopNDays(transactions []models.Transaction, n int) []DayTotal {
	if n <= 0 {
		return []DayTotal{}
	}

	type dayBucket struct {
		date       models.Date
		total      decimal.Decimal
		categories []string
		byCategory map[string]decimal.Decimal
	}

	index := make(map[string]int)
	var days []*dayBucket

	for i := range transactions {
		tx := &transactions[i]
		key := tx.TransactionDate.Key()

		pos, ok := index[key]
		if !ok {
			pos = len(days)
			index[key] = pos
			days = append(days, &dayBucket{
				date:       tx.TransactionDate,
				total:      decimal.Zero,
				byCategory: make(map[string]decimal.Decimal),
			})
		}

		b := days[pos]
		b.total = b.total.Add(tx.Amount)
		cat := categoryKey(tx)
		if _, seen := b.byCategory[cat]; !seen {
			b.categories = append(b.categories, cat)
		}
		b.byCategory[cat] = b.byCategory[cat].Add(tx.Amount)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].total.GreaterThan(days[j].total)
	})
	if len(days) > n {
		days = days[:n]
	}

	out := make([]DayTotal, 0, len(days))
	for _, b := range days {
		dominant := UnknownCategory
		best := decimal.NewFromInt(-1)
		for _, cat := range b.categories {
			if b.byCategory[cat].GreaterThan(best) {
				dominant = cat
				best = b.byCategory[cat]
			}
		}
		out = append(out, DayTotal{Date: b.date, Total: b.total, DominantCategory: dominant})
	}
	return out
}

// TimelineByDate groups transactions per calendar day with every line item
// kept for tooltips. Days are returned in ascending date order.
func TimelineByDate(transactions []models.Transaction) []TimelineDay {
	index := make(map[string]int)
	var days []TimelineDay

	for i := range transactions {
		tx := &transactions[i]
		key := tx.TransactionDate.Key()

		pos, ok := index[key]
		if !ok {
			pos = len(days)
			index[key] = pos
			days = append(days, TimelineDay{Date: tx.TransactionDate, Total: decimal.Zero, Items: []TimelineItem{}})
		}

		day := &days[pos]
		day.Total = day.Total.Add(tx.Amount)
		day.Items = append(day.Items, TimelineItem{Amount: tx.Amount, CategoryID: categoryKey(tx)})
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date.Date)
	})
	return days
}

// SumTotals sums income and expense amounts in a single pass.
func SumTotals(transactions []models.Transaction) Totals {
	totals := Totals{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for i := range transactions {
		switch transactions[i].Type {
		case models.TransactionTypeIncome:
			totals.TotalIncome = totals.TotalIncome.Add(transactions[i].Amount)
		case models.TransactionTypeExpense:
			totals.TotalExpense = totals.TotalExpense.Add(transactions[i].Amount)
		}
	}
	return totals
}

// AccountsTotalBalance sums the cached current balance of every account.
func AccountsTotalBalance(accounts []models.Account) decimal.Decimal {
	balances := make([]decimal.Decimal, len(accounts))
	for i := range accounts {
		balances[i] = accounts[i].CurrentBalance
	}
	return money.Sum(balances...)
}
