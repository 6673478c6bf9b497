package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// dashboardService loads a user's data and hands it to the analytics engine.
type dashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db, now: time.Now}
}

// snapshot is everything the aggregations need for one user.
type snapshot struct {
	transactions []models.Transaction
	categories   []models.Category
	accounts     []models.Account
}

func (s *dashboardService) loadSnapshot(userID string) (*snapshot, error) {
	snap := &snapshot{}
	if err := s.db.Where("user_id = ?", userID).
		Order("transaction_date ASC").
		Order("created_at ASC").
		Find(&snap.transactions).Error; err != nil {
		return nil, s.unavailable("transactions", userID, err)
	}
	if err := s.db.Where("user_id = ?", userID).Find(&snap.categories).Error; err != nil {
		return nil, s.unavailable("categories", userID, err)
	}
	if err := s.db.Where("user_id = ?", userID).Find(&snap.accounts).Error; err != nil {
		return nil, s.unavailable("accounts", userID, err)
	}
	return snap, nil
}

func (s *dashboardService) unavailable(resource, userID string, err error) error {
	logger.Get().Errorw("failed to load dashboard data", "resource", resource, "user_id", userID, "error", err)
	return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
}

func (s *dashboardService) chartQuery(q DashboardQuery) analytics.ChartQuery {
	period := q.Period
	if period == "" {
		period = analytics.PeriodMonth
	}
	typ := q.Type
	if typ == "" {
		typ = analytics.TypeAll
	}
	return analytics.ChartQuery{Period: period, Type: typ, Reference: s.now().UTC()}
}

func validateDashboardQuery(q DashboardQuery) error {
	if q.Period != "" && !q.Period.IsValid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be week, month or year")
	}
	if q.Type != "" && !q.Type.IsValid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income, expense or all")
	}
	return nil
}

// GetSummary returns the income and expense totals of the period together
// with the balance across all accounts.
func (s *dashboardService) GetSummary(userID string, q DashboardQuery) (*DashboardSummary, error) {
	if err := validateDashboardQuery(q); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}

	cq := s.chartQuery(q)
	filtered := analytics.ApplyAllFilters(snap.transactions, cq.Period, cq.Type, cq.Reference)
	totals := analytics.SumTotals(filtered)
	totalBalance := analytics.AccountsTotalBalance(snap.accounts)

	return &DashboardSummary{
		Period:              cq.Period,
		Type:                cq.Type,
		PeriodStart:         analytics.PeriodStart(cq.Period, cq.Reference),
		TotalIncome:         totals.TotalIncome,
		TotalExpense:        totals.TotalExpense,
		TotalBalance:        totalBalance,
		TotalIncomeDisplay:  money.Format(totals.TotalIncome),
		TotalExpenseDisplay: money.Format(totals.TotalExpense),
		TotalBalanceDisplay: money.Format(totalBalance),
		TransactionCount:    len(filtered),
	}, nil
}

// GetCategoryChart returns the period's amounts grouped by category.
func (s *dashboardService) GetCategoryChart(userID string, q DashboardQuery) ([]analytics.CategoryChartItem, error) {
	if err := validateDashboardQuery(q); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryChart(snap.transactions, snap.categories, s.chartQuery(q)), nil
}

// GetTopDays returns the n days with the largest totals in the period.
func (s *dashboardService) GetTopDays(userID string, q DashboardQuery, n int) ([]analytics.TopDayChartItem, error) {
	if err := validateDashboardQuery(q); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}
	return analytics.TopDaysChart(snap.transactions, snap.categories, s.chartQuery(q), n), nil
}

// GetTimeline returns the period's transactions laid out day by day.
func (s *dashboardService) GetTimeline(userID string, q DashboardQuery) ([]analytics.TimelineChartPoint, error) {
	if err := validateDashboardQuery(q); err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}
	return analytics.TimelineChart(snap.transactions, snap.categories, s.chartQuery(q)), nil
}

// GetYearsInterval returns every year between the user's first and last
// transaction, inclusive.
func (s *dashboardService) GetYearsInterval(userID string) ([]int, error) {
	earliest, err := s.boundaryDate(userID, "transaction_date ASC")
	if err != nil {
		return nil, err
	}
	latest, err := s.boundaryDate(userID, "transaction_date DESC")
	if err != nil {
		return nil, err
	}
	return analytics.YearsInterval(earliest, latest, s.now().UTC()), nil
}

func (s *dashboardService) boundaryDate(userID, order string) (*models.Date, error) {
	var transaction models.Transaction
	err := s.db.Where("user_id = ?", userID).Order(order).Take(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, s.unavailable("transactions", userID, err)
	}
	return &transaction.TransactionDate, nil
}
