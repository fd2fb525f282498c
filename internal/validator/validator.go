package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/shopspring/decimal"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidator builds the shared request validator. Decimal fields are
// validated through their string form, and two money tags are registered:
//
//	amount   non-negative, at most types.AmountScale decimal places
//	percent  between 0 and 100, at most types.PercentScale decimal places
func NewValidator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterCustomTypeFunc(decimalString, decimal.Decimal{})
		_ = v.RegisterValidation("amount", validateAmount)
		_ = v.RegisterValidation("percent", validatePercent)
		validate = v
	})
	return validate
}

// ValidateRequest validates req against its struct tags. Failures are
// reported per json field name.
func ValidateRequest(req interface{}) error {
	err := NewValidator().Struct(req)
	if err == nil {
		return nil
	}

	details := make(map[string]any)
	var validateErrs validator.ValidationErrors
	if ierr.As(err, &validateErrs) {
		for _, fe := range validateErrs {
			details[fe.Field()] = describe(fe)
		}
	}
	return ierr.WithError(err).
		WithHint("Request validation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "amount":
		return "must be a non-negative amount with at most 8 decimal places"
	case "percent":
		return "must be a percentage between 0 and 100 with at most 4 decimal places"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
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

func decimalString(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func parseDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func validateAmount(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok && !d.IsNegative() && types.FitsScale(d, types.AmountScale)
}

func validatePercent(fl validator.FieldLevel) bool {
	d, ok := parseDecimal(fl)
	return ok &&
		!d.IsNegative() &&
		d.LessThanOrEqual(decimal.NewFromInt(100)) &&
		types.FitsScale(d, types.PercentScale)
}
