package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// DashboardHandler serves the aggregated chart and summary data.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardQueryParams are the query parameters shared by every dashboard view.
type DashboardQueryParams struct {
	Period analytics.Period     `form:"period" binding:"omitempty,period"`
	Type   analytics.TypeFilter `form:"type" binding:"omitempty,type_filter"`
}

// TopDaysQueryParams adds the number of days to rank.
type TopDaysQueryParams struct {
	DashboardQueryParams
	N *int `form:"n" binding:"omitempty,min=1,max=31"`
}

// toQuery applies the month and all defaults.
func (p DashboardQueryParams) toQuery() services.DashboardQuery {
	q := services.DashboardQuery{Period: p.Period, Type: p.Type}
	if q.Period == "" {
		q.Period = analytics.PeriodMonth
	}
	if q.Type == "" {
		q.Type = analytics.TypeAll
	}
	return q
}

func bindDashboardQuery(c *gin.Context) (services.DashboardQuery, error) {
	var params DashboardQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return services.DashboardQuery{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return params.toQuery(), nil
}

// GetSummary handles the dashboard headline figures
// @Summary     Dashboard summary
// @Description Income and expense totals for the period plus the balance across all accounts
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "week, month or year (default month)"
// @Param       type   query string false "income, expense or all (default all)"
// @Success     200 {object} services.DashboardSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data could not be loaded"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	q, err := bindDashboardQuery(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetSummary(userID, q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetCategoryChart handles the spending-by-category chart
// @Summary     Category chart
// @Description Amounts of the period grouped by category, largest first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "week, month or year (default month)"
// @Param       type   query string false "income, expense or all (default all)"
// @Success     200 {array}  analytics.CategoryChartItem "Chart items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data could not be loaded"
// @Router      /dashboard/categories [get]
func (h *DashboardHandler) GetCategoryChart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	q, err := bindDashboardQuery(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items, err := h.dashboardService.GetCategoryChart(userID, q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTopDays handles the top days chart
// @Summary     Top days
// @Description The n days of the period with the largest totals and their dominant category
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "week, month or year (default month)"
// @Param       type   query string false "income, expense or all (default all)"
// @Param       n      query int    false "Number of days (default 5)"
// @Success     200 {array}  analytics.TopDayChartItem "Chart items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data could not be loaded"
// @Router      /dashboard/top-days [get]
func (h *DashboardHandler) GetTopDays(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var params TopDaysQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	q := params.toQuery()

	n := analytics.DefaultTopDays
	if params.N != nil {
		n = *params.N
	}

	items, err := h.dashboardService.GetTopDays(userID, q, n)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTimeline handles the day-by-day timeline chart
// @Summary     Timeline
// @Description Every day of the period with its total and line items, oldest first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "week, month or year (default month)"
// @Param       type   query string false "income, expense or all (default all)"
// @Success     200 {array}  analytics.TimelineChartPoint "Timeline points"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data could not be loaded"
// @Router      /dashboard/timeline [get]
func (h *DashboardHandler) GetTimeline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	q, err := bindDashboardQuery(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	points, err := h.dashboardService.GetTimeline(userID, q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": points})
}

// GetYears handles the list of years that have transactions
// @Summary     Years interval
// @Description Every year from the first to the last transaction, inclusive
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]int "Years"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data could not be loaded"
// @Router      /dashboard/years [get]
func (h *DashboardHandler) GetYears(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	years, err := h.dashboardService.GetYearsInterval(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"years": years})
}
