package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// CategoryIcons is the fixed set of icon names a category may reference.
// Clients map each name to an asset of their own.
var CategoryIcons = []string{
	"Utensils",
	"Home",
	"Car",
	"Heart",
	"Briefcase",
	"ReceiptText",
	"ShoppingCart",
	"Plane",
	"Zap",
	"BookOpen",
	"Settings",
	"Palette",
	"Dog",
	"Gamepad",
	"Hospital",
	"Gift",
	"HandCoins",
	"Pill",
	"Monitor",
	"Pizza",
}

// IsValidCategoryIcon reports whether name is in CategoryIcons.
func IsValidCategoryIcon(name string) bool {
	for _, icon := range CategoryIcons {
		if icon == name {
			return true
		}
	}
	return false
}

// Category represents a transaction category. Transfers never carry one.
type Category struct {
	Base
	UserID string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`
	Color  string       `json:"color"`
	Icon   string       `json:"icon,omitempty"`
}
