package controller

import (
	"io"

	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/pkg/serverutils"
	"clinical-scribe-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IScribeController interface {
	RegisterRoutes(r fiber.Router)
	StartRecording(ctx *fiber.Ctx) error
	AppendChunk(ctx *fiber.Ctx) error
	StopRecording(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type scribeController struct {
	scribeService service.IScribeService
}

func NewScribeController(scribeService service.IScribeService) IScribeController {
	return &scribeController{
		scribeService: scribeService,
	}
}

func (c *scribeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/scribe/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Post("record/start", c.StartRecording)
	h.Post("record/chunk", c.AppendChunk)
	h.Post("record/stop", c.StopRecording)
	h.Post("upload", c.Upload)
}

func (c *scribeController) StartRecording(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	// Body is optional; an empty one means the default media type.
	var req dto.StartRecordingRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
	}

	res, err := c.scribeService.StartRecording(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start recording", res))
}

// AppendChunk receives one raw audio chunk as the request body.
func (c *scribeController) AppendChunk(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	if err := c.scribeService.AppendChunk(sessionID, ctx.Body()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success append chunk", nil))
}

func (c *scribeController) StopRecording(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.scribeService.StopRecording(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process recording", res))
}

func (c *scribeController) Upload(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	contentType := fileHeader.Header.Get("Content-Type")

	res, err := c.scribeService.Upload(ctx.Context(), sessionID, contentType, fileHeader.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process upload", res))
}
