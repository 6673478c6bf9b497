package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// AccountInput holds the fields of a new account.
type AccountInput struct {
	Name           string
	Type           models.AccountType
	Currency       string
	Color          string
	Description    string
	InitialBalance decimal.Decimal
}

// AccountUpdateFields holds the optional fields of an account update.
// A nil pointer leaves the column untouched.
type AccountUpdateFields struct {
	Name           *string
	Type           *models.AccountType
	Currency       *string
	Color          *string
	Description    *string
	InitialBalance *decimal.Decimal
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID string, input AccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	RecalculateBalance(userID, accountID string) (*models.Account, error)
	RecalculateBalanceWithDB(tx *gorm.DB, userID, accountID string) (*models.Account, error)
	GetTotalBalance(userID string) (decimal.Decimal, error)
}

// CategoryInput holds the fields of a new category.
type CategoryInput struct {
	Name  string
	Type  models.CategoryType
	Color string
	Icon  string
}

// CategoryUpdateFields holds the optional fields of a category update.
type CategoryUpdateFields struct {
	Name  *string
	Type  *models.CategoryType
	Color *string
	Icon  *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID string, input CategoryInput) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	Title           *string
	Amount          decimal.Decimal
	Type            models.TransactionType
	TransactionDate models.Date
	AccountID       string
	CategoryID      *string
	TargetAccountID *string
}

// TransactionUpdateFields holds the optional fields of a transaction update.
// Changing Type clears the fields that no longer apply (category and title
// for transfers, target account otherwise) unless they are set explicitly.
type TransactionUpdateFields struct {
	Title           *string
	Amount          *decimal.Decimal
	Type            *models.TransactionType
	TransactionDate *models.Date
	AccountID       *string
	CategoryID      *string
	TargetAccountID *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *models.Date
	ToDate     *models.Date
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionServicer defines the contract for transaction-related business logic.
// Every mutation recalculates the balance of each account it touches before
// returning.
type TransactionServicer interface {
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// DashboardQuery selects the period and transaction type of a dashboard view.
type DashboardQuery struct {
	Period analytics.Period
	Type   analytics.TypeFilter
}

// DashboardSummary holds the headline figures of the dashboard.
type DashboardSummary struct {
	Period              analytics.Period     `json:"period"`
	Type                analytics.TypeFilter `json:"type"`
	PeriodStart         models.Date          `json:"period_start"`
	TotalIncome         decimal.Decimal      `json:"total_income"`
	TotalExpense        decimal.Decimal      `json:"total_expense"`
	TotalBalance        decimal.Decimal      `json:"total_balance"`
	TotalIncomeDisplay  string               `json:"total_income_display"`
	TotalExpenseDisplay string               `json:"total_expense_display"`
	TotalBalanceDisplay string               `json:"total_balance_display"`
	TransactionCount    int                  `json:"transaction_count"`
}

// DashboardServicer loads a user's snapshot and runs the aggregations on it.
type DashboardServicer interface {
	GetSummary(userID string, q DashboardQuery) (*DashboardSummary, error)
	GetCategoryChart(userID string, q DashboardQuery) ([]analytics.CategoryChartItem, error)
	GetTopDays(userID string, q DashboardQuery, n int) ([]analytics.TopDayChartItem, error)
	GetTimeline(userID string, q DashboardQuery) ([]analytics.TimelineChartPoint, error)
	GetYearsInterval(userID string) ([]int, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
