package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

const SessionHeader = "X-Session-Id"

// SessionMiddleware requires the opaque session id header and exposes it via
// Locals. Sessions are identity only, not authentication; the only secret in
// play is the user's own API credential stored inside the session.
func SessionMiddleware(ctx *fiber.Ctx) error {
	sessionID := ctx.Get(SessionHeader)
	if sessionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(
			ErrorResponse(fiber.StatusBadRequest, "Missing "+SessionHeader+" header"))
	}
	ctx.Locals("session_id", sessionID)
	return ctx.Next()
}
