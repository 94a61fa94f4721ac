package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return respondError(c, services.ErrUnauthenticated)
	}

	caller, err := handler.auth.Authenticate(c.UserContext(), token, handler.now())
	if err != nil {
		return respondError(c, err)
	}

	c.Locals(contextCallerKey, caller)
	return c.Next()
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
