package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	api.Get("/public/info", handler.PublicInfo)
	api.Get("/church/info", handler.ChurchInfo)

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	members := api.Group("/members", handler.AuthRequired)
	members.Get("/", handler.ListMembers)
	members.Post("/", handler.CreateMember)
	members.Get("/:id", handler.GetMember)
	members.Put("/:id", handler.UpdateMember)
	members.Delete("/:id", handler.DeactivateMember)
	members.Post("/:id/photo", handler.UploadMemberPhoto)
	members.Delete("/:id/photo", handler.DeleteMemberPhoto)

	api.Get("/statistics", handler.AuthRequired, handler.Statistics)
	api.Get("/districts", handler.AuthRequired, handler.Districts)
	api.Get("/leadership", handler.AuthRequired, handler.Leadership)
	api.Get("/service-types", handler.AuthRequired, handler.ServiceTypes)
	api.Get("/reference/:type", handler.AuthRequired, handler.Reference)

	users := api.Group("/users", handler.AuthRequired)
	users.Get("/", handler.ListUsers)
	users.Put("/:id/role", handler.UpdateUserRole)
	users.Delete("/:id", handler.DeleteUser)

	events := api.Group("/events", handler.AuthRequired)
	events.Get("/", handler.ListEvents)
	events.Post("/", handler.CreateEvent)
	events.Put("/:id", handler.UpdateEvent)
	events.Delete("/:id", handler.DeleteEvent)

	api.Get("/birthdays", handler.AuthRequired, handler.Birthdays)
	api.Get("/birthdays/upcoming", handler.AuthRequired, handler.UpcomingBirthdays)
	api.Get("/calendar/:year/:month", handler.AuthRequired, handler.Calendar)
}
