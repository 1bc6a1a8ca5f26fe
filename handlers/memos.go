package handlers

import (
	"errors"

	"memo-notes/app"
	"memo-notes/models"
	"memo-notes/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// unfiledFolder selects memos without a folder in ?folder=
const unfiledFolder = "unfiled"

// folderExists reports whether folderID is nil or names an existing folder
func folderExists(a *app.App, folderID *string) bool {
	return folderID == nil || a.Store.HasFolder(*folderID)
}

// ListMemos returns the search-filtered memos, optionally narrowed to one
// folder. A q parameter replaces the current search query first.
func ListMemos(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Context().QueryArgs().Has("q") {
			a.Store.SetSearchQuery(utils.CopyString(c.Query("q")))
		}

		var memos []models.Memo
		switch folder := c.Query("folder"); folder {
		case "":
			memos = a.Store.Memos()
		case unfiledFolder:
			memos = a.Store.MemosInFolder(nil)
		default:
			memos = a.Store.MemosInFolder(&folder)
		}

		return success(c, fiber.Map{
			"memos": memos,
			"query": a.Store.SearchQuery(),
		})
	}
}

// GetMemo returns one memo regardless of the search query
func GetMemo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		memo, err := a.Store.GetMemo(c.Params("id"))
		if errors.Is(err, services.ErrMemoNotFound) {
			return notFound(c, "Memo not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch memo", err)
		}

		return success(c, fiber.Map{"memo": memo})
	}
}

// CreateMemo creates an empty memo, optionally inside a folder
func CreateMemo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateMemoRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "Invalid request body")
			}
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}
		if !folderExists(a, req.FolderID) {
			return badRequest(c, "Folder not found")
		}

		memo, err := a.Store.CreateMemo(c.UserContext(), req.FolderID)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create memo", err)
		}

		return created(c, fiber.Map{"memo": memo})
	}
}

// UpdateMemo saves the full memo state sent by the client and moves the
// memo to the top of the list
func UpdateMemo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateMemoRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}
		if len(req.Images) > a.MaxImagesPerMemo {
			return tooManyImages(c, a)
		}
		if !folderExists(a, req.FolderID) {
			return badRequest(c, "Folder not found")
		}

		memo, err := a.Store.UpdateMemo(c.UserContext(), models.Memo{
			ID:       utils.CopyString(c.Params("id")),
			Title:    req.Title,
			Content:  req.Content,
			Images:   req.Images,
			FolderID: req.FolderID,
		})
		if err != nil {
			return serverErrorWithDetails(c, "Failed to save memo", err)
		}

		return success(c, fiber.Map{"memo": memo})
	}
}

// MoveMemo refiles a memo without changing list order
func MoveMemo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.MoveMemoRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}
		if !folderExists(a, req.FolderID) {
			return badRequest(c, "Folder not found")
		}

		if err := a.Store.MoveMemoToFolder(c.UserContext(), c.Params("id"), req.FolderID); err != nil {
			return serverErrorWithDetails(c, "Failed to move memo", err)
		}

		return success(c, fiber.Map{"message": "Memo moved successfully"})
	}
}

// DeleteMemo removes a memo; unknown ids succeed
func DeleteMemo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Store.DeleteMemo(c.UserContext(), c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to delete memo", err)
		}

		return success(c, fiber.Map{"message": "Memo deleted successfully"})
	}
}

// SetSearch replaces the search query used by ListMemos
func SetSearch(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SearchRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		a.Store.SetSearchQuery(req.Query)

		return success(c, fiber.Map{"query": req.Query})
	}
}
