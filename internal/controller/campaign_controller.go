package controller

import (
	"errors"

	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/serverutils"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICampaignController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type campaignController struct {
	service service.ICampaignService
}

func NewCampaignController(service service.ICampaignService) ICampaignController {
	return &campaignController{service: service}
}

func (c *campaignController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/campaigns")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
}

func (c *campaignController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return campaignError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create campaign", res))
}

func (c *campaignController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all campaigns", res))
}

func (c *campaignController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid campaign id")
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return campaignError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show campaign", res))
}

func campaignError(err error) error {
	switch {
	case errors.Is(err, contract.ErrCampaignNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Campaign not found")
	case errors.Is(err, contract.ErrCampaignExists):
		return fiber.NewError(fiber.StatusConflict, "Campaign already exists")
	}
	return err
}
