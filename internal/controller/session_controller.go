package controller

import (
	"marketing-insights-be/internal/pkg/serverutils"
	"marketing-insights-be/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Reset(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessions *session.Manager
}

func NewSessionController(sessions *session.Manager) ISessionController {
	return &sessionController{sessions: sessions}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Delete("/session", c.Reset)
}

// Reset drops every stored value of the caller's session. The cookie stays valid.
func (c *sessionController) Reset(ctx *fiber.Ctx) error {
	if err := c.sessions.Delete(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session reset", nil))
}
