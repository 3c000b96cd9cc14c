// internal/validator/validator.go
package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Description must contain at least two words when present.
	_ = Validate.RegisterValidation("twowords", func(fl validator.FieldLevel) bool {
		return len(strings.Fields(fl.Field().String())) >= 2
	})

	// Employee names: at least two characters, must not start with a digit.
	// Counted in runes so multi-byte names are measured like any others.
	_ = Validate.RegisterValidation("humanname", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if utf8.RuneCountInString(s) < 2 {
			return false
		}
		r, _ := utf8.DecodeRuneInString(s)
		return !unicode.IsDigit(r)
	})

	// Passwords need an upper, a lower, a digit and a special character.
	_ = Validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, lower, digit, special bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
				special = true
			}
		}
		return upper && lower && digit && special
	})
}
