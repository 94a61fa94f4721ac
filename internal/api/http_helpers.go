package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

const kindRateLimited = "rate_limited"

var errorStatuses = map[string]int{
	services.KindNotFound:                  fiber.StatusNotFound,
	services.KindValidation:                fiber.StatusBadRequest,
	services.KindUnauthenticated:           fiber.StatusUnauthorized,
	services.KindForbidden:                 fiber.StatusForbidden,
	services.KindForbiddenSelfModification: fiber.StatusForbidden,
	services.KindConflict:                  fiber.StatusConflict,
	services.KindStoreUnavailable:          fiber.StatusServiceUnavailable,
}

// respondError writes {"error": kind, "message": text}. Store failures are
// reported without their underlying cause.
func respondError(c *fiber.Ctx, err error) error {
	kind := services.ErrorKind(err)
	status, ok := errorStatuses[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	message := err.Error()
	if kind == services.KindStoreUnavailable {
		message = services.ErrStoreUnavailable.Error()
	}
	return apiError(c, status, kind, message)
}

func apiError(c *fiber.Ctx, status int, kind string, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": kind, "message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return apiError(c, fiber.StatusBadRequest, services.KindValidation, message)
}

func parseBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return errors.New("request body is required")
	}
	if err := c.BodyParser(target); err != nil {
		return errors.New("request body must be valid JSON")
	}
	return nil
}

func paramUint(c *fiber.Ctx, name string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// queryInt returns fallback for an absent parameter and ok=false for one
// that is present but not an integer.
func queryInt(c *fiber.Ctx, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func queryBool(c *fiber.Ctx, name string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// queryAlias returns the first non-empty value among names and the name
// that carried it.
func queryAlias(c *fiber.Ctx, names ...string) (string, string) {
	for _, name := range names {
		if value := strings.TrimSpace(c.Query(name)); value != "" {
			return value, name
		}
	}
	return "", ""
}

// queryPositiveInt reads the first present alias. Zero means absent.
func queryPositiveInt(c *fiber.Ctx, names ...string) (int, bool) {
	raw, _ := queryAlias(c, names...)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}

func errInvalidQuery(name string) error {
	return fmt.Errorf("query parameter %q is invalid", name)
}
