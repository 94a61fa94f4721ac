package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

func (handler *Handler) ListMembers(c *fiber.Ctx) error {
	query, err := memberQueryFromRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := handler.access.SearchMembers(c.UserContext(), currentCaller(c), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newMemberPageView(page, handler.today()))
}

func (handler *Handler) GetMember(c *fiber.Ctx) error {
	memberID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "member id must be a positive integer")
	}

	member, err := handler.access.GetMember(c.UserContext(), currentCaller(c), memberID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newMemberView(member, handler.today()))
}

func (handler *Handler) CreateMember(c *fiber.Ctx) error {
	var payload memberPayload
	if err := parseBody(c, &payload); err != nil {
		return badRequest(c, err.Error())
	}

	member, err := handler.access.CreateMember(c.UserContext(), currentCaller(c), payload.toInput())
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("member created", "member_id", member.ID, "user_id", currentCaller(c).UserID)
	return c.Status(fiber.StatusCreated).JSON(newMemberView(member, handler.today()))
}

func (handler *Handler) UpdateMember(c *fiber.Ctx) error {
	memberID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "member id must be a positive integer")
	}

	var payload memberPatchPayload
	if err := parseBody(c, &payload); err != nil {
		return badRequest(c, err.Error())
	}

	member, err := handler.access.UpdateMember(c.UserContext(), currentCaller(c), memberID, payload.toPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newMemberView(member, handler.today()))
}

// DeactivateMember is a soft delete; the record stays for statistics.
func (handler *Handler) DeactivateMember(c *fiber.Ctx) error {
	memberID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "member id must be a positive integer")
	}

	if err := handler.access.DeactivateMember(c.UserContext(), currentCaller(c), memberID); err != nil {
		return respondError(c, err)
	}

	slog.Info("member deactivated", "member_id", memberID, "user_id", currentCaller(c).UserID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) UploadMemberPhoto(c *fiber.Ctx) error {
	caller := currentCaller(c)
	if err := handler.access.CanEditMembers(caller); err != nil {
		return respondError(c, err)
	}
	memberID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "member id must be a positive integer")
	}
	if _, err := handler.access.GetMember(c.UserContext(), caller, memberID); err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "multipart field \"file\" is required")
	}
	photoURL, err := handler.photos().save(file)
	if err != nil {
		return respondError(c, err)
	}

	previous, err := handler.access.SetMemberPhoto(c.UserContext(), caller, memberID, photoURL)
	if err != nil {
		handler.photos().remove(photoURL)
		return respondError(c, err)
	}
	handler.photos().remove(previous)

	return c.JSON(fiber.Map{"photo_url": photoURL})
}

func (handler *Handler) DeleteMemberPhoto(c *fiber.Ctx) error {
	memberID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "member id must be a positive integer")
	}

	previous, err := handler.access.ClearMemberPhoto(c.UserContext(), currentCaller(c), memberID)
	if err != nil {
		return respondError(c, err)
	}
	handler.photos().remove(previous)
	return c.SendStatus(fiber.StatusNoContent)
}

func memberQueryFromRequest(c *fiber.Ctx) (services.MemberQuery, error) {
	text, _ := queryAlias(c, "search", "q")
	query := services.MemberQuery{
		Text:   text,
		Gender: c.Query("gender"),
	}

	activeName := "active_only"
	if _, name := queryAlias(c, "active_only", "activeOnly"); name != "" {
		activeName = name
	}
	activeOnly, ok := queryBool(c, activeName)
	if !ok {
		return services.MemberQuery{}, errInvalidQuery(activeName)
	}
	query.ActiveOnly = activeOnly

	serviceTypeID, ok := queryInt(c, "service_type_id", 0)
	if !ok || serviceTypeID < 0 {
		return services.MemberQuery{}, errInvalidQuery("service_type_id")
	}
	districtID, ok := queryInt(c, "district_id", 0)
	if !ok || districtID < 0 {
		return services.MemberQuery{}, errInvalidQuery("district_id")
	}
	query.ServiceTypeID = uint(serviceTypeID)
	query.DistrictID = uint(districtID)

	// Absent page and page size fall back to service defaults; given ones
	// must be positive.
	if query.Page, ok = queryPositiveInt(c, "page"); !ok {
		return services.MemberQuery{}, errInvalidQuery("page")
	}
	if query.PageSize, ok = queryPositiveInt(c, "page_size", "pageSize", "limit"); !ok {
		return services.MemberQuery{}, errInvalidQuery("page_size")
	}
	return query, nil
}
