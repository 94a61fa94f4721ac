package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// today is the handler's current calendar date in the configured zone.
func (handler *Handler) today() time.Time {
	return services.CalendarDay(services.DateAtLocation(handler.now(), handler.location))
}
