package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/models"
)

func categories() []models.Category {
	return []models.Category{
		{Base: models.Base{ID: "food"}, Name: "Food", Type: models.CategoryTypeExpense, Color: "#00FF00"},
		{Base: models.Base{ID: "rent"}, Name: "Rent", Type: models.CategoryTypeExpense, Color: "#FF0000"},
		{Base: models.Base{ID: "plain"}, Name: "Plain", Type: models.CategoryTypeExpense},
	}
}

func TestBuildChartConfig(t *testing.T) {
	cfg := BuildChartConfig(categories())
	assert.Equal(t, SeriesConfig{Label: "Food", Color: "#00FF00"}, cfg["food"])
	assert.Equal(t, DefaultConfigColor, cfg["plain"].Color)
}

func TestDateLabel(t *testing.T) {
	day := models.NewDate(2025, time.March, 7)
	assert.Equal(t, "07/03", DateLabel(day, PeriodWeek))
	assert.Equal(t, "07", DateLabel(day, PeriodMonth))
	assert.Equal(t, "Mar", DateLabel(day, PeriodYear))
	assert.Equal(t, "07/03/2025", DateLabel(day, Period("decade")))
}

func TestCategoryChart(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "80", "2025-03-02", "food"),
		tx(t, models.TransactionTypeExpense, "500", "2025-03-01", "rent"),
		tx(t, models.TransactionTypeExpense, "3", "2025-03-04", "deleted"),
		tx(t, models.TransactionTypeIncome, "1000", "2025-03-04", "salary"),
	}

	got := CategoryChart(txs, categories(), ChartQuery{Period: PeriodMonth, Type: TypeExpense, Reference: ref})
	require.Len(t, got, 3)
	assert.Equal(t, "Rent", got[0].Name)
	assert.True(t, got[0].Amount.Equal(d("500")))
	assert.Equal(t, "01", got[0].Date)
	assert.Equal(t, "Food", got[1].Name)
	assert.True(t, got[1].Amount.Equal(d("80")))
	assert.Equal(t, UnknownCategory, got[2].Name)
}

func TestTopDaysChart(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "80", "2025-03-02", "food"),
		tx(t, models.TransactionTypeExpense, "500", "2025-03-01", "rent"),
		tx(t, models.TransactionTypeExpense, "3", "2025-03-04", "deleted"),
	}

	got := TopDaysChart(txs, categories(), ChartQuery{Period: PeriodMonth, Type: TypeAll, Reference: ref}, DefaultTopDays)
	require.Len(t, got, 3)
	assert.Equal(t, "01/03", got[0].Date)
	assert.Equal(t, "Rent", got[0].CategoryName)
	assert.Equal(t, "#FF0000", got[0].Color)
	assert.Equal(t, DefaultTopDayLabel, got[2].CategoryName)
	assert.Equal(t, DefaultTopDayColor, got[2].Color)
}

func TestTimelineChart(t *testing.T) {
	txs := []models.Transaction{
		tx(t, models.TransactionTypeExpense, "80", "2025-03-02", "food"),
		tx(t, models.TransactionTypeExpense, "3", "2025-03-02", "deleted"),
		tx(t, models.TransactionTypeExpense, "500", "2025-03-01", "rent"),
	}

	got := TimelineChart(txs, categories(), ChartQuery{Period: PeriodWeek, Type: TypeAll, Reference: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)})
	// Week of Sunday 2025-03-02 starts on Monday 2025-02-24.
	require.Len(t, got, 2)
	assert.Equal(t, "01/03", got[0].Date)
	require.Len(t, got[1].Items, 2)
	assert.Equal(t, "Food", got[1].Items[0].Label)
	assert.Equal(t, DefaultTimelineLabel, got[1].Items[1].Label)
	assert.Equal(t, DefaultTimelineColor, got[1].Items[1].Color)
	assert.True(t, got[1].Total.Equal(d("83")))
}

func TestYearsInterval(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []int{2025}, YearsInterval(nil, nil, now))

	earliest := models.NewDate(2022, time.March, 1)
	latest := models.NewDate(2024, time.December, 31)
	assert.Equal(t, []int{2022, 2023, 2024}, YearsInterval(&earliest, &latest, now))
	assert.Equal(t, []int{2022, 2023, 2024, 2025}, YearsInterval(&earliest, nil, now))
}
