// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", validateCurrency)
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("category_icon", validateCategoryIcon)
		_ = v.RegisterValidation("period", validatePeriod)
		_ = v.RegisterValidation("type_filter", validateTypeFilter)
	}
}

func validateCurrency(fl validator.FieldLevel) bool {
	_, ok := models.Currencies[fl.Field().String()]
	return ok
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateAccountType(fl validator.FieldLevel) bool {
	return models.AccountType(fl.Field().String()).IsValid()
}

func validateCategoryIcon(fl validator.FieldLevel) bool {
	return models.IsValidCategoryIcon(fl.Field().String())
}

func validatePeriod(fl validator.FieldLevel) bool {
	return analytics.Period(fl.Field().String()).IsValid()
}

func validateTypeFilter(fl validator.FieldLevel) bool {
	return analytics.TypeFilter(fl.Field().String()).IsValid()
}
