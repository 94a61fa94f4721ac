package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Statistics(c *fiber.Ctx) error {
	snapshot, err := handler.access.Statistics(c.UserContext(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snapshot)
}

func (handler *Handler) Districts(c *fiber.Ctx) error {
	districts, err := handler.access.Districts(c.UserContext(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newDistrictViews(districts))
}

func (handler *Handler) Leadership(c *fiber.Ctx) error {
	leadership, err := handler.access.Leadership(c.UserContext(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newLeadershipView(leadership))
}

func (handler *Handler) ServiceTypes(c *fiber.Ctx) error {
	serviceTypes, err := handler.access.ServiceTypes(c.UserContext(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newServiceTypeViews(serviceTypes))
}

// Reference returns one code-to-label map, e.g. /api/reference/marital_status.
func (handler *Handler) Reference(c *fiber.Ctx) error {
	values, err := handler.access.Reference(currentCaller(c), c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(values)
}

func (handler *Handler) ChurchInfo(c *fiber.Ctx) error {
	church := handler.access.Church()
	return c.JSON(churchView{Name: church.Name, City: church.City})
}

func (handler *Handler) PublicInfo(c *fiber.Ctx) error {
	info, err := handler.access.PublicInfo(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(publicInfoView{
		ChurchName:    info.Church.Name,
		City:          info.Church.City,
		ActiveMembers: info.ActiveMembers,
		Districts:     info.Districts,
	})
}
