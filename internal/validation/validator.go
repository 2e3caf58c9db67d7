package validation

import (
	"reflect"
	"strings"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("account_number", validateAccountNumber)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("account_status", validateAccountStatus)
	_ = v.RegisterValidation("auto_debit_frequency", validateAutoDebitFrequency)
	_ = v.RegisterValidation("user_role", validateUserRole)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct against its tags
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Custom validation functions

// validateAccountNumber checks the ACC-prefixed account number format
func validateAccountNumber(fl validator.FieldLevel) bool {
	return models.ValidateAccountNumber(fl.Field().String())
}

// validateTransactionType checks the closed set of transaction types
func validateTransactionType(fl validator.FieldLevel) bool {
	return models.IsValidTransactionType(strings.ToLower(fl.Field().String()))
}

// validateAccountStatus checks the closed set of account statuses
func validateAccountStatus(fl validator.FieldLevel) bool {
	return models.IsValidAccountStatus(strings.ToLower(fl.Field().String()))
}

// validateAutoDebitFrequency checks the closed set of schedule frequencies
func validateAutoDebitFrequency(fl validator.FieldLevel) bool {
	return models.IsValidFrequency(strings.ToLower(fl.Field().String()))
}

// validateUserRole checks the closed set of actor roles
func validateUserRole(fl validator.FieldLevel) bool {
	return models.IsValidRole(strings.ToLower(fl.Field().String()))
}

// validatePositiveAmount validates that an amount is greater than 0. Amounts
// are decimal.Decimal everywhere; integers and floats are accepted for
// convenience in request payloads.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	if d, ok := fl.Field().Interface().(decimal.Decimal); ok {
		return d.GreaterThan(decimal.Zero)
	}

	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() > 0
	case reflect.Float32, reflect.Float64:
		return fl.Field().Float() > 0
	default:
		return false
	}
}
