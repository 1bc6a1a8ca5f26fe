package handlers

import (
	"strings"

	"memo-notes/app"
	"memo-notes/models"

	"github.com/gofiber/fiber/v2"
)

// ListFolders returns every folder in creation order
func ListFolders(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"folders": a.Store.Folders()})
	}
}

// CreateFolder creates a folder from a trimmed, non-blank name
func CreateFolder(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		// Trim whitespace
		req.Name = strings.TrimSpace(req.Name)

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		folder, err := a.Store.CreateFolder(c.UserContext(), req.Name)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create folder", err)
		}

		return created(c, fiber.Map{"folder": folder})
	}
}

// DeleteFolder deletes a folder and moves its memos to unfiled
func DeleteFolder(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Store.DeleteFolder(c.UserContext(), c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to delete folder", err)
		}

		return success(c, fiber.Map{
			"message": "Folder deleted successfully. Its memos are now unfiled.",
		})
	}
}
