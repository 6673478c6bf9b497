package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/models"
)

// Wednesday.
var ref = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(t *testing.T, s string) models.Date {
	t.Helper()
	parsed, err := models.ParseDate(s)
	require.NoError(t, err)
	return parsed
}

func strPtr(s string) *string { return &s }

func tx(t *testing.T, typ models.TransactionType, amount, day, category string) models.Transaction {
	t.Helper()
	out := models.Transaction{
		Type:            typ,
		Amount:          d(amount),
		TransactionDate: date(t, day),
		AccountID:       "acc",
	}
	if category != "" {
		out.CategoryID = strPtr(category)
	}
	if typ == models.TransactionTypeTransfer {
		out.TargetAccountID = strPtr("other")
	}
	return out
}

func TestPeriodStart(t *testing.T) {
	assert.Equal(t, "2025-03-10", PeriodStart(PeriodWeek, ref).Key())
	assert.Equal(t, "2025-03-01", PeriodStart(PeriodMonth, ref).Key())
	assert.Equal(t, "2025-01-01", PeriodStart(PeriodYear, ref).Key())

	sunday := time.Date(2025, time.March, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", PeriodStart(PeriodWeek, sunday).Key())

	monday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", PeriodStart(PeriodWeek, monday).Key())
}

func TestFilterByPeriod(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "10", "2025-03-09", "food"),
		tx(t, models.TransactionTypeExpense, "20", "2025-03-10", "food"),
		tx(t, models.TransactionTypeIncome, "30", "2025-03-12", "salary"),
		tx(t, models.TransactionTypeTransfer, "40", "2025-03-11", ""),
		tx(t, models.TransactionTypeExpense, "50", "2025-02-28", "rent"),
	}

	t.Run("week_starts_monday", func(t *testing.T) {
		got := FilterByPeriod(txs, PeriodWeek, ref)
		require.Len(t, got, 2)
		assert.True(t, got[0].Amount.Equal(d("20")))
		assert.True(t, got[1].Amount.Equal(d("30")))
	})

	t.Run("month", func(t *testing.T) {
		assert.Len(t, FilterByPeriod(txs, PeriodMonth, ref), 3)
	})

	t.Run("year_excludes_transfers", func(t *testing.T) {
		got := FilterByPeriod(txs, PeriodYear, ref)
		assert.Len(t, got, 4)
		for _, tr := range got {
			assert.NotEqual(t, models.TransactionTypeTransfer, tr.Type)
		}
	})
}

func TestFilterByType(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "10", "2025-03-11", "food"),
		tx(t, models.TransactionTypeIncome, "30", "2025-03-12", "salary"),
		tx(t, models.TransactionTypeTransfer, "40", "2025-03-11", ""),
	}

	period := FilterByPeriod(txs, PeriodMonth, ref)
	assert.Equal(t, period, FilterByType(period, TypeAll))

	income := FilterByType(period, TypeIncome)
	require.Len(t, income, 1)
	assert.Equal(t, models.TransactionTypeIncome, income[0].Type)

	expense := FilterByType(period, TypeExpense)
	require.Len(t, expense, 1)
	assert.Equal(t, models.TransactionTypeExpense, expense[0].Type)
}

func TestApplyAllFilters_OrderIndependent(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "10", "2025-03-11", "food"),
		tx(t, models.TransactionTypeExpense, "15", "2024-12-31", "food"),
		tx(t, models.TransactionTypeIncome, "30", "2025-03-12", "salary"),
	}

	a := ApplyAllFilters(txs, PeriodYear, TypeExpense, ref)
	b := FilterByPeriod(FilterByType(txs, TypeExpense), PeriodYear, ref)
	assert.Equal(t, a, b)
	assert.Len(t, a, 1)
}

func TestGroupByCategory(t *testing.T) {
	t.Run("sorted_by_amount", func(t *testing.T) {
		txs := []models.Transaction{
			tx(t, models.TransactionTypeExpense, "30", "2025-03-02", "food"),
			tx(t, models.TransactionTypeExpense, "500", "2025-03-01", "rent"),
			tx(t, models.TransactionTypeExpense, "50", "2025-03-05", "food"),
		}

		got := GroupByCategory(txs)
		require.Len(t, got, 2)
		assert.Equal(t, "rent", got[0].CategoryID)
		assert.True(t, got[0].Amount.Equal(d("500")))
		assert.Equal(t, "food", got[1].CategoryID)
		assert.True(t, got[1].Amount.Equal(d("80")))
		assert.Equal(t, "2025-03-05", got[1].LatestDate.Key())
	})

	t.Run("missing_category_goes_to_unknown", func(t *testing.T) {
		txs := []models.Transaction{
			tx(t, models.TransactionTypeExpense, "5", "2025-03-02", ""),
			tx(t, models.TransactionTypeExpense, "7", "2025-03-03", ""),
		}

		got := GroupByCategory(txs)
		require.Len(t, got, 1)
		assert.Equal(t, UnknownCategory, got[0].CategoryID)
		assert.True(t, got[0].Amount.Equal(d("12")))
	})

	t.Run("ties_keep_first_seen_order", func(t *testing.T) {
		txs := []models.Transaction{
			tx(t, models.TransactionTypeExpense, "10", "2025-03-02", "b"),
			tx(t, models.TransactionTypeExpense, "10", "2025-03-02", "a"),
			tx(t, models.TransactionTypeExpense, "10", "2025-03-02", "c"),
		}

		got := GroupByCategory(txs)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"b", "a", "c"}, []string{got[0].CategoryID, got[1].CategoryID, got[2].CategoryID})
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, GroupByCategory(nil))
	})
}

func TestTopNDays(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "10", "2025-03-01", "food"),
		tx(t, models.TransactionTypeExpense, "90", "2025-03-02", "rent"),
		tx(t, models.TransactionTypeExpense, "20", "2025-03-02", "food"),
		tx(t, models.TransactionTypeExpense, "40", "2025-03-03", "fun"),
		tx(t, models.TransactionTypeExpense, "40", "2025-03-03", "food"),
		tx(t, models.TransactionTypeExpense, "5", "2025-03-04", "food"),
		tx(t, models.TransactionTypeExpense, "60", "2025-03-05", "fun"),
		tx(t, models.TransactionTypeExpense, "1", "2025-03-06", ""),
	}

	t.Run("at_most_n_sorted_desc", func(t *testing.T) {
		got := TopNDays(txs, 3)
		require.Len(t, got, 3)
		assert.Equal(t, "2025-03-02", got[0].Date.Key())
		assert.True(t, got[0].Total.Equal(d("110")))
		assert.Equal(t, "2025-03-03", got[1].Date.Key())
		assert.Equal(t, "2025-03-05", got[2].Date.Key())
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i-1].Total.GreaterThanOrEqual(got[i].Total))
		}
	})

	t.Run("dominant_category", func(t *testing.T) {
		got := TopNDays(txs, 5)
		assert.Equal(t, "rent", got[0].DominantCategory)
		// 2025-03-03 is a tie between fun and food; fun was seen first.
		assert.Equal(t, "fun", got[1].DominantCategory)
	})

	t.Run("fewer_days_than_n", func(t *testing.T) {
		got := TopNDays(txs, 100)
		assert.Len(t, got, 6)
		for _, day := range got {
			assert.True(t, day.Total.IsPositive())
		}
		assert.Equal(t, UnknownCategory, got[len(got)-1].DominantCategory)
	})

	t.Run("non_positive_n", func(t *testing.T) {
		assert.Empty(t, TopNDays(txs, 0))
		assert.Empty(t, TopNDays(txs, -1))
	})

	t.Run("no_transactions", func(t *testing.T) {
		assert.Empty(t, TopNDays(nil, 5))
	})
}

func TestTimelineByDate(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "10", "2025-03-03", "food"),
		tx(t, models.TransactionTypeExpense, "5", "2025-03-01", "fun"),
		tx(t, models.TransactionTypeExpense, "2.5", "2025-03-03", ""),
	}

	got := TimelineByDate(txs)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-01", got[0].Date.Key())
	assert.Equal(t, "2025-03-03", got[1].Date.Key())
	assert.True(t, got[1].Total.Equal(d("12.5")))
	require.Len(t, got[1].Items, 2)
	assert.Equal(t, "food", got[1].Items[0].CategoryID)
	assert.Equal(t, UnknownCategory, got[1].Items[1].CategoryID)
}

func TestSumTotals(t *testing.T) {
	t.Run("income_and_expense", func(t *testing.T) {
		txs := []models.Transaction{
			tx(t, models.TransactionTypeIncome, "0.1", "2025-03-01", "salary"),
			tx(t, models.TransactionTypeIncome, "0.2", "2025-03-01", "salary"),
			tx(t, models.TransactionTypeExpense, "19.99", "2025-03-01", "food"),
			tx(t, models.TransactionTypeTransfer, "1000", "2025-03-01", ""),
		}

		got := SumTotals(txs)
		assert.True(t, got.TotalIncome.Equal(d("0.3")))
		assert.True(t, got.TotalExpense.Equal(d("19.99")))
	})

	t.Run("only_transfers", func(t *testing.T) {
		txs := []models.Transaction{
			tx(t, models.TransactionTypeTransfer, "100", "2025-03-01", ""),
			tx(t, models.TransactionTypeTransfer, "200", "2025-03-02", ""),
		}

		got := SumTotals(txs)
		assert.True(t, got.TotalIncome.IsZero())
		assert.True(t, got.TotalExpense.IsZero())
	})
}

func TestAccountsTotalBalance(t *testing.T) {
	accounts := []models.Account{
		{CurrentBalance: d("120.00")},
		{CurrentBalance: d("-20.50")},
	}
	assert.True(t, AccountsTotalBalance(accounts).Equal(d("99.5")))
}
