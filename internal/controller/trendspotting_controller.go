package controller

import (
	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/serverutils"
	"marketing-insights-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITrendspottingController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	TopTerms(ctx *fiber.Ctx) error
	Interest(ctx *fiber.Ctx) error
	Summaries(ctx *fiber.Ctx) error
	SaveToCampaign(ctx *fiber.Ctx) error
}

type trendspottingController struct {
	service service.ITrendspottingService
}

func NewTrendspottingController(service service.ITrendspottingService) ITrendspottingController {
	return &trendspottingController{service: service}
}

func (c *trendspottingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pages/trendspotting")
	h.Get("", c.Show)
	h.Post("top-terms", c.TopTerms)
	h.Post("interest", c.Interest)
	h.Post("summaries", c.Summaries)
	h.Post("campaign", c.SaveToCampaign)
}

func (c *trendspottingController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Render(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success render trendspotting", res))
}

func (c *trendspottingController) TopTerms(ctx *fiber.Ctx) error {
	var req dto.TopTermsRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitTopTerms(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success submit top terms", res))
}

func (c *trendspottingController) Interest(ctx *fiber.Ctx) error {
	var req dto.InterestRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitInterest(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success submit search interest", res))
}

func (c *trendspottingController) Summaries(ctx *fiber.Ctx) error {
	var req dto.SummarizeRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitSummaries(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success submit summaries", res))
}

func (c *trendspottingController) SaveToCampaign(ctx *fiber.Ctx) error {
	var req dto.SaveToCampaignRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitSaveToCampaign(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save to campaign", res))
}
