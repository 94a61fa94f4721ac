package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

const contextCallerKey = "current_caller"

// currentCaller returns nil for requests that did not pass AuthRequired,
// which the access layer reports as unauthenticated.
func currentCaller(c *fiber.Ctx) *services.Caller {
	caller, _ := c.Locals(contextCallerKey).(*services.Caller)
	return caller
}
