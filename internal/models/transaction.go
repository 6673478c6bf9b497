package models

import (
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Direction is the cash effect of a transaction on its source account.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// DirectionFor derives the stored direction from the transaction type.
// Transfers are recorded from the source leg, so they are outbound.
func DirectionFor(t TransactionType) Direction {
	if t == TransactionTypeIncome {
		return DirectionIn
	}
	return DirectionOut
}

// Transaction represents a financial transaction in the system.
// Amount is always a positive magnitude; the sign is derived from Type and
// from which side of a transfer the reader is on.
type Transaction struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title           *string         `json:"title,omitempty"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Type            TransactionType `gorm:"not null" json:"type"`
	Direction       Direction       `gorm:"not null" json:"direction"`
	TransactionDate Date            `gorm:"type:date;not null;index" json:"transaction_date"`
	AccountID       string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID      *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	TargetAccountID *string         `gorm:"type:uuid;index" json:"target_account_id,omitempty"`

	// SignedAmount is the effect on the account a listing is scoped to.
	SignedAmount *decimal.Decimal `gorm:"-" json:"signed_amount,omitempty"`

	// Relationships
	Account       *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	TargetAccount *Account  `gorm:"foreignKey:TargetAccountID" json:"target_account,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// IsTransfer reports whether the transaction moves money between accounts.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeTransfer
}

// Touches reports whether the transaction references accountID on either leg.
func (t *Transaction) Touches(accountID string) bool {
	if t.AccountID == accountID {
		return true
	}
	return t.TargetAccountID != nil && *t.TargetAccountID == accountID
}

// AccountIDs returns the ids of every account the transaction references.
func (t *Transaction) AccountIDs() []string {
	ids := []string{t.AccountID}
	if t.TargetAccountID != nil && *t.TargetAccountID != "" && *t.TargetAccountID != t.AccountID {
		ids = append(ids, *t.TargetAccountID)
	}
	return ids
}
