package controller

import (
	"io"

	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/serverutils"
	"marketing-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxPersonasFileSize = 5 * 1024 * 1024

type IAudienceController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	UploadPersonas(ctx *fiber.Ctx) error
	Insight(ctx *fiber.Ctx) error
}

type audienceController struct {
	service service.IAudienceService
}

func NewAudienceController(service service.IAudienceService) IAudienceController {
	return &audienceController{service: service}
}

func (c *audienceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pages/audiences")
	h.Get("", c.Show)
	h.Post("personas", c.UploadPersonas)
	h.Post("insight", c.Insight)
}

func (c *audienceController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Render(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success render audiences", res))
}

func (c *audienceController) UploadPersonas(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Personas file is required")
	}
	if file.Size > maxPersonasFileSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Personas file is too large")
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	res, err := c.service.SubmitPersonas(ctx.UserContext(), serverutils.SessionID(ctx), content)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success upload personas", res))
}

func (c *audienceController) Insight(ctx *fiber.Ctx) error {
	var req dto.InsightRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitInsight(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate insight", res))
}
