package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	handleRE = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,29}$`)
)

// handleValidator ensures the value is a usable public handle: lowercase
// alphanumeric plus hyphens, 2-30 characters, starting with a letter or
// digit. The empty string is allowed so that the same validator can be used
// on optional payload fields that clear the handle; combine with `required`
// when the handle is mandatory.
func handleValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return handleRE.MatchString(value)
}
