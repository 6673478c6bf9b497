package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType represents the kind of account shown to the user.
type AccountType string

const (
	AccountTypeChecking           AccountType = "default"
	AccountTypeCreditCard         AccountType = "credit_card"
	AccountTypeDebitCard          AccountType = "debit_card"
	AccountTypeInvestment         AccountType = "investment"
	AccountTypeAccountsPayable    AccountType = "accounts_payable"
	AccountTypeAccountsReceivable AccountType = "accounts_receivable"
)

// AccountTypes lists every supported account type with its display label.
var AccountTypes = []struct {
	Value AccountType
	Label string
}{
	{AccountTypeChecking, "Checking Account"},
	{AccountTypeCreditCard, "Credit Card"},
	{AccountTypeDebitCard, "Debit Card"},
	{AccountTypeInvestment, "Investment"},
	{AccountTypeAccountsPayable, "Accounts Payable"},
	{AccountTypeAccountsReceivable, "Accounts Receivable"},
}

// IsValid reports whether t is one of the supported account types.
func (t AccountType) IsValid() bool {
	for _, at := range AccountTypes {
		if at.Value == t {
			return true
		}
	}
	return false
}

// Currencies maps the supported currency codes to their display names.
var Currencies = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"BRL": "Brazilian Real",
	"GBP": "Pound Sterling",
	"JPY": "Yen",
	"CNY": "Yuan Renminbi",
	"AUD": "Australian Dollar",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"MXN": "Mexican Peso",
	"ARS": "Argentine Peso",
	"CLP": "Chilean Peso",
	"COP": "Colombian Peso",
	"INR": "Indian Rupee",
	"KRW": "South Korean Won",
	"ZAR": "South African Rand",
}

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "USD"

// Account represents a financial account in the system.
// CurrentBalance is a cache derived from InitialBalance and the account's
// transactions; only the balance recalculation writes it.
type Account struct {
	Base
	UserID              string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string          `gorm:"not null" json:"name"`
	Type                AccountType     `gorm:"not null;default:'default'" json:"type"`
	Description         string          `json:"description,omitempty"`
	InitialBalance      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"initial_balance"`
	CurrentBalance      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"current_balance"`
	Currency            string          `gorm:"not null;default:'USD'" json:"currency"`
	Color               string          `json:"color"`
	LastBalanceUpdateAt *time.Time      `json:"last_balance_update_at,omitempty"`
}
