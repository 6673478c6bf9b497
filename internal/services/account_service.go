package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/analytics"
	"fintrack/internal/balance"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account and seeds its current balance from the
// initial balance.
func (s *accountService) CreateAccount(userID string, input AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	accountType := input.Type
	if accountType == "" {
		accountType = models.AccountTypeChecking
	}
	if !accountType.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported account type")
	}

	currency := input.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if _, ok := models.Currencies[currency]; !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency")
	}

	account := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		Description:    input.Description,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		Currency:       currency,
		Color:          input.Color,
	}

	var result *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var err error
		result, err = s.RecalculateBalanceWithDB(tx, userID, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	query := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	result, err := pagination.Find[models.Account](query, page, pagination.OrderBy("created_at ASC"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	return findAccount(s.db, userID, accountID)
}

func findAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates the editable fields of an account. Changing the
// initial balance recalculates the current balance in the same transaction.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name cannot be empty")
		}
		updates["name"] = name
	}
	if fields.Type != nil {
		if !fields.Type.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported account type")
		}
		updates["type"] = *fields.Type
	}
	if fields.Currency != nil {
		if _, ok := models.Currencies[*fields.Currency]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency")
		}
		updates["currency"] = *fields.Currency
	}
	if fields.Color != nil {
		updates["color"] = *fields.Color
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	recalculate := false
	if fields.InitialBalance != nil && !fields.InitialBalance.Equal(account.InitialBalance) {
		updates["initial_balance"] = *fields.InitialBalance
		recalculate = true
	}

	if len(updates) == 0 {
		return account, nil
	}

	var result *models.Account
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(account).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if recalculate {
			var err error
			result, err = s.RecalculateBalanceWithDB(tx, userID, accountID)
			return err
		}
		var err error
		result, err = findAccount(tx, userID, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAccount removes an account together with every transaction that
// references it, then recalculates the other side of each removed transfer.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var related []models.Transaction
		if err := tx.Where("user_id = ? AND (account_id = ? OR target_account_id = ?)", userID, accountID, accountID).
			Find(&related).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
		}

		counterparts := make(map[string]struct{})
		ids := make([]string, 0, len(related))
		for i := range related {
			ids = append(ids, related[i].ID)
			for _, id := range related[i].AccountIDs() {
				if id != accountID {
					counterparts[id] = struct{}{}
				}
			}
		}

		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Delete(&models.Transaction{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for id := range counterparts {
			if _, err := s.RecalculateBalanceWithDB(tx, userID, id); err != nil {
				if errors.Is(err, apperrors.ErrAccountNotFound) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

// GetTotalBalance sums the current balance of every account the user owns.
func (s *accountService) GetTotalBalance(userID string) (decimal.Decimal, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return analytics.AccountsTotalBalance(accounts), nil
}

// RecalculateBalance recomputes and persists the current balance of an account.
func (s *accountService) RecalculateBalance(userID, accountID string) (*models.Account, error) {
	var result *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.RecalculateBalanceWithDB(tx, userID, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecalculateBalanceWithDB replays every transaction referencing the account,
// oldest first, on top of its initial balance and stores the result. It must
// run after the triggering write, on the same handle, so the write is visible.
// Nothing is written when the account or its transactions cannot be loaded.
// The account row is locked first so concurrent writers on the same account
// recompute one after the other and each sees the other's committed rows.
func (s *accountService) RecalculateBalanceWithDB(tx *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	var transactions []models.Transaction
	if err := tx.Where("user_id = ? AND (account_id = ? OR target_account_id = ?)", userID, accountID, accountID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	current, err := balance.Compute(account.InitialBalance, transactions, account.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := tx.Model(&account).Updates(map[string]interface{}{
		"current_balance":        current,
		"last_balance_update_at": now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.CurrentBalance = current
	account.LastBalanceUpdateAt = &now

	logger.Get().Debugw("account balance recalculated",
		"account_id", account.ID,
		"transactions", len(transactions),
		"current_balance", current.StringFixed(2),
	)

	return &account, nil
}
