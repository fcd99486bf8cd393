package controller

import (
	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/serverutils"
	"marketing-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICampaignPerformanceController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	SelectDashboard(ctx *fiber.Ctx) error
}

type campaignPerformanceController struct {
	service service.ICampaignPerformanceService
}

func NewCampaignPerformanceController(service service.ICampaignPerformanceService) ICampaignPerformanceController {
	return &campaignPerformanceController{service: service}
}

func (c *campaignPerformanceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pages/campaign-performance")
	h.Get("", c.Show)
	h.Post("dashboard", c.SelectDashboard)
}

func (c *campaignPerformanceController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Render(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success render campaign performance", res))
}

func (c *campaignPerformanceController) SelectDashboard(ctx *fiber.Ctx) error {
	var req dto.DashboardRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitDashboard(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select dashboard", res))
}
