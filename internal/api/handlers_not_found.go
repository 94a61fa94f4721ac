package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, services.KindNotFound, "route not found")
}
