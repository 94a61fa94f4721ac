package api

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.access.ListUsers(c.UserContext(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, newUserView(user))
	}
	return c.JSON(views)
}

func (handler *Handler) UpdateUserRole(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("id"))

	var input roleInput
	if err := parseBody(c, &input); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := handler.access.UpdateUserRole(c.UserContext(), currentCaller(c), userID, input.Role)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("user role changed", "user_id", user.ID, "role", user.Role, "by", currentCaller(c).UserID)
	return c.JSON(newUserView(user))
}

func (handler *Handler) DeleteUser(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("id"))
	if err := handler.access.DeleteUser(c.UserContext(), currentCaller(c), userID); err != nil {
		return respondError(c, err)
	}

	slog.Info("user deleted", "user_id", userID, "by", currentCaller(c).UserID)
	return c.SendStatus(fiber.StatusNoContent)
}
