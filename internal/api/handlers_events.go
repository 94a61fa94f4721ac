package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ListEvents returns every event, or one month's when both year and month
// are given.
func (handler *Handler) ListEvents(c *fiber.Ctx) error {
	year, ok := queryInt(c, "year", 0)
	if !ok {
		return badRequest(c, errInvalidQuery("year").Error())
	}
	month, ok := queryInt(c, "month", 0)
	if !ok {
		return badRequest(c, errInvalidQuery("month").Error())
	}

	events, err := handler.access.Events(c.UserContext(), currentCaller(c), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newEventViews(events))
}

func (handler *Handler) CreateEvent(c *fiber.Ctx) error {
	var payload eventPayload
	if err := parseBody(c, &payload); err != nil {
		return badRequest(c, err.Error())
	}

	event, err := handler.access.CreateEvent(c.UserContext(), currentCaller(c), payload.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newEventView(event))
}

func (handler *Handler) UpdateEvent(c *fiber.Ctx) error {
	var payload eventPatchPayload
	if err := parseBody(c, &payload); err != nil {
		return badRequest(c, err.Error())
	}

	event, err := handler.access.UpdateEvent(c.UserContext(), currentCaller(c), strings.TrimSpace(c.Params("id")), payload.toPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newEventView(event))
}

func (handler *Handler) DeleteEvent(c *fiber.Ctx) error {
	if err := handler.access.DeleteEvent(c.UserContext(), currentCaller(c), strings.TrimSpace(c.Params("id"))); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) Birthdays(c *fiber.Ctx) error {
	month, ok := queryInt(c, "month", 0)
	if !ok {
		return badRequest(c, errInvalidQuery("month").Error())
	}

	birthdays, err := handler.access.Birthdays(c.UserContext(), currentCaller(c), month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newBirthdayViews(birthdays))
}

func (handler *Handler) UpcomingBirthdays(c *fiber.Ctx) error {
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return badRequest(c, errInvalidQuery("days").Error())
	}

	birthdays, err := handler.access.UpcomingBirthdays(c.UserContext(), currentCaller(c), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newBirthdayViews(birthdays))
}

func (handler *Handler) Calendar(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return badRequest(c, "year must be an integer")
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return badRequest(c, "month must be an integer")
	}

	calendar, err := handler.access.Calendar(c.UserContext(), currentCaller(c), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newCalendarView(calendar))
}
