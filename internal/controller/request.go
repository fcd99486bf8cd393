package controller

import (
	"marketing-insights-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// bindAndValidate parses the JSON body into req and runs the struct validation.
func bindAndValidate(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
