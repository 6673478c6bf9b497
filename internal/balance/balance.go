// Package balance recomputes an account's balance from its initial balance
// and the transactions that reference it.
package balance

import (
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// Effect returns the signed effect of tx on accountID. Rows that do not
// reference the account on the relevant leg contribute zero.
func Effect(tx *models.Transaction, accountID string) decimal.Decimal {
	switch tx.Type {
	case models.TransactionTypeIncome:
		if tx.AccountID == accountID {
			return tx.Amount
		}
	case models.TransactionTypeExpense:
		if tx.AccountID == accountID {
			return tx.Amount.Neg()
		}
	case models.TransactionTypeTransfer:
		if tx.AccountID == accountID {
			return tx.Amount.Neg()
		}
		if tx.TargetAccountID != nil && *tx.TargetAccountID == accountID {
			return tx.Amount
		}
	}
	return decimal.Zero
}

// Compute folds transactions over initial and returns the balance of
// accountID rounded to two decimals. Transactions are expected in ascending
// creation order. A transfer whose source and target are the same account is
// rejected with ErrInvalidTransaction.
func Compute(initial decimal.Decimal, transactions []models.Transaction, accountID string) (decimal.Decimal, error) {
	acc := initial
	for i := range transactions {
		tx := &transactions[i]
		if tx.IsTransfer() && tx.TargetAccountID != nil && *tx.TargetAccountID == tx.AccountID {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidTransaction,
				"transfer "+tx.ID+" has the same source and target account")
		}
		acc = acc.Add(Effect(tx, accountID))
	}
	return money.Round(acc), nil
}
