// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("month", validateMonth)
		_ = v.RegisterValidation("ai_provider", validateAIProvider)
		_ = v.RegisterValidation("txn_source", validateTxnSource)
	}
}

// validateMonth accepts YYYY-MM strings.
func validateMonth(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}

func validateAIProvider(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "openai", "anthropic", "google", "ollama":
		return true
	}
	return false
}

func validateTxnSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "manual", "import", "bank-sync":
		return true
	}
	return false
}
