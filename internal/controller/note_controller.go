package controller

import (
	"clinical-scribe-be/internal/apperror"
	"clinical-scribe-be/internal/pkg/serverutils"
	"clinical-scribe-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.noteService.List(sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("Note")
	}

	res, err := c.noteService.Show(sessionID, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}
