package rest

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

type requestValidator struct {
	validator *validator.Validate
}

func newValidator() *requestValidator {
	return &requestValidator{validator: validator.New()}
}

func (v *requestValidator) Validate(i any) error {
	return v.validator.Struct(i)
}

// failedTag returns the first failing tag of err, preferring "required".
func failedTag(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return ""
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return "required"
		}
	}
	return ve[0].Tag()
}
