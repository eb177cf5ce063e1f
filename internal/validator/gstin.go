// Package validator holds the format rules shared by request binding and the
// GSP reconciliation.
package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	ewbPattern   = regexp.MustCompile(`^\d{12}$`)
)

// GSTIN reports whether s is a 15 character GSTIN. Lower case input is accepted.
func GSTIN(s string) bool {
	return gstinPattern.MatchString(strings.ToUpper(s))
}

// EWayBill reports whether s is a 12 digit e-way bill number.
func EWayBill(s string) bool {
	return ewbPattern.MatchString(s)
}

// Register adds the "gstin" and "ewb" tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return GSTIN(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("ewb", func(fl validator.FieldLevel) bool {
		return EWayBill(fl.Field().String())
	})
}
