package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh owner id. Users live in the identity provider,
// so there is no row to create.
func NewUserID() string {
	return uuid.New()
}

// Today returns the current UTC calendar date.
func Today() models.Date {
	return models.DateOf(time.Now().UTC())
}

// CreateTestAccount creates a checking account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, "0")
}

// CreateTestAccountWithBalance creates a checking account whose initial and
// current balance are both set to balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID, balance string) *models.Account {
	t.Helper()

	amount := decimal.RequireFromString(balance)
	account := &models.Account{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Type:           models.AccountTypeChecking,
		InitialBalance: amount,
		CurrentBalance: amount,
		Currency:       models.DefaultCurrency,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Color:  "#336699",
		Icon:   "Home",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts an income or expense row dated today without
// touching account balances.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, categoryID *string, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()

	title := fmt.Sprintf("Test Transaction %d", nextID())
	tx := &models.Transaction{
		UserID:          userID,
		Title:           &title,
		AccountID:       accountID,
		CategoryID:      categoryID,
		Type:            txType,
		Direction:       models.DirectionFor(txType),
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: Today(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTransfer inserts a transfer row dated today without touching
// account balances.
func CreateTestTransfer(t *testing.T, db *gorm.DB, userID, fromID, toID, amount string) *models.Transaction {
	t.Helper()

	target := toID
	tx := &models.Transaction{
		UserID:          userID,
		AccountID:       fromID,
		TargetAccountID: &target,
		Type:            models.TransactionTypeTransfer,
		Direction:       models.DirectionOut,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: Today(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transfer: %v", err)
	}
	return tx
}
