package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Fallback labels and colors used when a transaction references a category
// that is missing from the snapshot.
const (
	DefaultConfigColor   = "#fff"
	DefaultTopDayColor   = "#CCCCCC"
	DefaultTopDayLabel   = "Without name"
	DefaultTimelineColor = "#ccc"
	DefaultTimelineLabel = UnknownCategory
)

// DefaultTopDays is the number of days returned by the top days chart.
const DefaultTopDays = 5

// SeriesConfig is the display label and color of one chart series.
type SeriesConfig struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ChartConfig maps category ids to their series configuration.
type ChartConfig map[string]SeriesConfig

// BuildChartConfig indexes categories by id.
func BuildChartConfig(categories []models.Category) ChartConfig {
	cfg := make(ChartConfig, len(categories))
	for _, cat := range categories {
		color := cat.Color
		if color == "" {
			color = DefaultConfigColor
		}
		cfg[cat.ID] = SeriesConfig{Label: cat.Name, Color: color}
	}
	return cfg
}

var labelLayouts = map[Period]string{
	PeriodWeek:  "02/01",
	PeriodMonth: "02",
	PeriodYear:  "Jan",
}

// DateLabel formats a date for the x axis of a chart in the given period.
func DateLabel(d models.Date, period Period) string {
	layout, ok := labelLayouts[period]
	if !ok {
		layout = "02/01/2006"
	}
	return d.Time().Format(layout)
}

// CategoryChartItem is one bar of the spending-by-category chart.
type CategoryChartItem struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	RawDate  models.Date     `json:"raw_date"`
}

// TopDayChartItem is one bar of the top days chart.
type TopDayChartItem struct {
	Date             string          `json:"date"`
	RawDate          models.Date     `json:"raw_date"`
	Amount           decimal.Decimal `json:"amount"`
	DominantCategory string          `json:"dominant_category"`
	CategoryName     string          `json:"category_name"`
	Color            string          `json:"color"`
}

// TimelineChartItem is one transaction inside a timeline point.
type TimelineChartItem struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"category_id"`
	Color      string          `json:"color"`
	Label      string          `json:"label"`
}

// TimelineChartPoint is one day of the timeline chart.
type TimelineChartPoint struct {
	Date    string              `json:"date"`
	RawDate models.Date         `json:"raw_date"`
	Total   decimal.Decimal     `json:"total"`
	Items   []TimelineChartItem `json:"items"`
}

// ChartQuery selects the snapshot slice a chart is built from.
type ChartQuery struct {
	Period    Period
	Type      TypeFilter
	Reference time.Time
}

// CategoryChart groups the filtered snapshot by category.
func CategoryChart(transactions []models.Transaction, categories []models.Category, q ChartQuery) []CategoryChartItem {
	cfg := BuildChartConfig(categories)
	groups := GroupByCategory(ApplyAllFilters(transactions, q.Period, q.Type, q.Reference))

	items := make([]CategoryChartItem, 0, len(groups))
	for _, g := range groups {
		series, ok := cfg[g.CategoryID]
		if !ok {
			series = SeriesConfig{Label: UnknownCategory, Color: DefaultTopDayColor}
		}
		items = append(items, CategoryChartItem{
			Category: g.CategoryID,
			Name:     series.Label,
			Color:    series.Color,
			Amount:   g.Amount,
			Date:     DateLabel(g.LatestDate, q.Period),
			RawDate:  g.LatestDate,
		})
	}
	return items
}

// TopDaysChart ranks the busiest days of the filtered snapshot.
func TopDaysChart(transactions []models.Transaction, categories []models.Category, q ChartQuery, n int) []TopDayChartItem {
	cfg := BuildChartConfig(categories)
	days := TopNDays(ApplyAllFilters(transactions, q.Period, q.Type, q.Reference), n)

	items := make([]TopDayChartItem, 0, len(days))
	for _, day := range days {
		name, color := DefaultTopDayLabel, DefaultTopDayColor
		if series, ok := cfg[day.DominantCategory]; ok {
			name, color = series.Label, series.Color
		}
		items = append(items, TopDayChartItem{
			Date:             DateLabel(day.Date, PeriodWeek),
			RawDate:          day.Date,
			Amount:           day.Total,
			DominantCategory: day.DominantCategory,
			CategoryName:     name,
			Color:            color,
		})
	}
	return items
}

// TimelineChart lays the filtered snapshot out day by day.
func TimelineChart(transactions []models.Transaction, categories []models.Category, q ChartQuery) []TimelineChartPoint {
	byID := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	days := TimelineByDate(ApplyAllFilters(transactions, q.Period, q.Type, q.Reference))

	points := make([]TimelineChartPoint, 0, len(days))
	for _, day := range days {
		items := make([]TimelineChartItem, 0, len(day.Items))
		for _, item := range day.Items {
			label, color := DefaultTimelineLabel, DefaultTimelineColor
			if cat, ok := byID[item.CategoryID]; ok {
				label = cat.Name
				if cat.Color != "" {
					color = cat.Color
				}
			}
			items = append(items, TimelineChartItem{
				Amount:     item.Amount,
				CategoryID: item.CategoryID,
				Color:      color,
				Label:      label,
			})
		}
		points = append(points, TimelineChartPoint{
			Date:    DateLabel(day.Date, q.Period),
			RawDate: day.Date,
			Total:   day.Total,
			Items:   items,
		})
	}
	return points
}

// YearsInterval lists every year from the earliest to the latest transaction
// date, inclusive. Missing bounds fall back to the year of now.
func YearsInterval(earliest, latest *models.Date, now time.Time) []int {
	minYear, maxYear := now.Year(), now.Year()
	if earliest != nil && !earliest.IsZero() {
		minYear = earliest.Year
	}
	if latest != nil && !latest.IsZero() {
		maxYear = latest.Year
	}

	years := []int{}
	for y := minYear; y <= maxYear; y++ {
		years = append(years, y)
	}
	return years
}
