package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks the struct's validate tags and reports every violation as one 400 error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, describe(e))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(messages, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", e.Field(), e.Tag())
	}
}
