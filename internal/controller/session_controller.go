package controller

import (
	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/pkg/serverutils"
	"clinical-scribe-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	SaveApiKey(ctx *fiber.Ctx) error
	ClearApiKey(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)

	protected := h.Group("", serverutils.SessionMiddleware)
	protected.Put("key", c.SaveApiKey)
	protected.Delete("key", c.ClearApiKey)
	protected.Get("state", c.State)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res := c.sessionService.Create()
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) SaveApiKey(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	var req dto.SaveApiKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.SaveApiKey(sessionID, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success save api key", nil))
}

func (c *sessionController) ClearApiKey(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	if err := c.sessionService.ClearApiKey(sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear api key", nil))
}

func (c *sessionController) State(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.sessionService.State(sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session state", res))
}
