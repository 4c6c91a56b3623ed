package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var promoCodeRgx = regexp.MustCompile(`^[A-Z0-9]{3,32}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("promo_code", validatePromoCode)

	return validator
}

func validatePromoCode(fl validator.FieldLevel) bool {
	return promoCodeRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "alpha":
		return "must contain only letters"
	case "numeric":
		return "must be a numeric identifier"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "promo_code":
		return "must be 3-32 uppercase letters or digits"
	default:
		return "is invalid"
	}
}
