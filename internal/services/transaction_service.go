package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/balance"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction validates and stores a transaction, then recalculates the
// balance of every account it references in the same database transaction.
func (s *transactionService) CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:          userID,
		Title:           input.Title,
		Amount:          input.Amount,
		Type:            input.Type,
		TransactionDate: input.TransactionDate,
		AccountID:       input.AccountID,
		CategoryID:      normalizeRef(input.CategoryID),
		TargetAccountID: normalizeRef(input.TargetAccountID),
	}

	if err := s.prepare(s.db, transaction); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recalculate(tx, userID, transaction.AccountIDs())
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(userID, transaction.ID)
}

// UpdateTransaction merges the provided fields into the stored transaction,
// re-validates the result and recalculates both the old and the new accounts.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	existing, err := s.findTransaction(s.db, userID, transactionID)
	if err != nil {
		return nil, err
	}
	touched := existing.AccountIDs()

	merged := *existing
	if fields.Type != nil && *fields.Type != existing.Type {
		merged.Type = *fields.Type
		if merged.IsTransfer() {
			merged.CategoryID = nil
		} else {
			merged.TargetAccountID = nil
		}
	}
	if fields.Title != nil {
		merged.Title = fields.Title
	}
	if fields.Amount != nil {
		merged.Amount = *fields.Amount
	}
	if fields.TransactionDate != nil {
		merged.TransactionDate = *fields.TransactionDate
	}
	if fields.AccountID != nil {
		merged.AccountID = *fields.AccountID
	}
	if fields.CategoryID != nil {
		merged.CategoryID = normalizeRef(fields.CategoryID)
	}
	if fields.TargetAccountID != nil {
		merged.TargetAccountID = normalizeRef(fields.TargetAccountID)
	}

	if err := s.prepare(s.db, &merged); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&merged).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recalculate(tx, userID, append(touched, merged.AccountIDs()...))
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction soft-deletes a transaction and recalculates every account
// it referenced.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.findTransaction(s.db, userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recalculate(tx, userID, transaction.AccountIDs())
	})
}

// GetTransactionByID retrieves a transaction by ID for a specific user with
// its accounts and category loaded.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return s.findTransaction(withRelations(s.db), userID, transactionID)
}

func (s *transactionService) findTransaction(db *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of a user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	return s.listTransactions(base, page, filter)
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions
// where the account is either the source or the target.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the account belongs to the user
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	filter.AccountID = &accountID
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	result, err := s.listTransactions(base, page, filter)
	if err != nil {
		return nil, err
	}

	for i := range result.Data {
		effect := balance.Effect(&result.Data[i], accountID)
		result.Data[i].SignedAmount = &effect
	}
	return result, nil
}

func (s *transactionService) listTransactions(base *gorm.DB, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	query := applyTransactionFilters(base, filter)
	result, err := pagination.Find[models.Transaction](query, page,
		withRelations,
		pagination.OrderBy("transaction_date DESC", "created_at DESC"),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Account").Preload("TargetAccount").Preload("Category")
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("(account_id = ? OR target_account_id = ?)", *f.AccountID, *f.AccountID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// prepare validates the record, checks that every reference belongs to the
// user and fills the derived columns.
func (s *transactionService) prepare(db *gorm.DB, t *models.Transaction) error {
	if err := validateTransaction(t); err != nil {
		return err
	}

	if t.TransactionDate.IsZero() {
		t.TransactionDate = models.DateOf(time.Now().UTC())
	}
	t.Direction = models.DirectionFor(t.Type)
	if t.IsTransfer() {
		t.Title = nil
	} else {
		title := strings.TrimSpace(*t.Title)
		t.Title = &title
	}

	if _, err := findAccount(db, t.UserID, t.AccountID); err != nil {
		return err
	}
	if t.TargetAccountID != nil {
		if _, err := findAccount(db, t.UserID, *t.TargetAccountID); err != nil {
			if errors.Is(err, apperrors.ErrAccountNotFound) {
				return apperrors.WithMessage(apperrors.ErrAccountNotFound, "target account not found")
			}
			return err
		}
	}
	if t.CategoryID != nil {
		var category models.Category
		if err := db.Where("id = ? AND user_id = ?", *t.CategoryID, t.UserID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// validateTransaction checks the shape of a transaction without touching the
// database.
func validateTransaction(t *models.Transaction) error {
	if !t.Type.IsValid() {
		return apperrors.ErrInvalidTransactionType
	}
	if !t.Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if t.AccountID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}

	if t.IsTransfer() {
		if t.CategoryID != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidTransaction, "transfers cannot have a category")
		}
		if t.TargetAccountID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidTransaction, "transfers require a target account")
		}
		if *t.TargetAccountID == t.AccountID {
			return apperrors.ErrSameAccountTransfer
		}
		return nil
	}

	if t.Title == nil || strings.TrimSpace(*t.Title) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if t.TargetAccountID != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidTransaction, "only transfers can have a target account")
	}
	if t.CategoryID == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidTransaction, "category is required")
	}
	return nil
}

// recalculate refreshes the balance of each distinct account id, in order.
func (s *transactionService) recalculate(tx *gorm.DB, userID string, accountIDs []string) error {
	seen := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.accountService.RecalculateBalanceWithDB(tx, userID, id); err != nil {
			return err
		}
	}
	return nil
}

func normalizeRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}
