package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Custom validation tags used on request structs.
const (
	TagDecimal   = "decimal"
	TagNotBlank  = "notblank"
	TagNoControl = "nocontrol"
)

// requestValidator is built on first use. Field errors are reported under the
// field's JSON name so clients see the keys they sent.
var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range map[string]validator.Func{
		TagDecimal:   validateDecimal,
		TagNotBlank:  validateNotBlank,
		TagNoControl: validateNoControl,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
})

// ValidateRequest runs struct tag validation on a decoded request.
func ValidateRequest(req any) error {
	return requestValidator().Struct(req)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// FormatValidationError maps each failing field to a client-facing message.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"error": ErrMsgInvalidRequest}
	}

	errs := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errs[e.Field()] = fieldMessage(e)
	}
	return errs
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", TagNotBlank:
		return "This field is required"
	case TagDecimal:
		return "Must be a non-negative decimal number"
	case "max":
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "gtfield":
		return fmt.Sprintf("Must be after %s", e.Param())
	case TagNoControl:
		return "Contains invalid characters"
	}
	return "Invalid value"
}

// validateDecimal accepts an empty string or a non-negative decimal.
func validateDecimal(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	d, err := decimal.NewFromString(raw)
	return err == nil && !d.IsNegative()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateNoControl(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
}
