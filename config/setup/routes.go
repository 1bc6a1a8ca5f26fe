package setup

import (
	"memo-notes/app"
	"memo-notes/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := fiberApp.Group("/api")

	api.Get("/memos", handlers.ListMemos(application))
	api.Post("/memos", handlers.CreateMemo(application))
	api.Get("/memos/:id", handlers.GetMemo(application))
	api.Put("/memos/:id", handlers.UpdateMemo(application))
	api.Delete("/memos/:id", handlers.DeleteMemo(application))
	api.Put("/memos/:id/folder", handlers.MoveMemo(application))
	api.Post("/memos/:id/images", handlers.UploadImage(application))

	api.Post("/images", handlers.EncodeImage(application))

	api.Get("/folders", handlers.ListFolders(application))
	api.Post("/folders", handlers.CreateFolder(application))
	api.Delete("/folders/:id", handlers.DeleteFolder(application))

	api.Put("/search", handlers.SetSearch(application))
}
