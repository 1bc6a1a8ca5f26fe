package handlers

import (
	"errors"
	"fmt"

	"memo-notes/app"
	"memo-notes/pkg/dataurl"
	"memo-notes/services"

	"github.com/gofiber/fiber/v2"
)

// EncodeImage turns the multipart "image" file into a data URL without
// touching any memo. Clients put it into their draft and save it with
// UpdateMemo.
func EncodeImage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		image, err := encodeUpload(c, a)
		if err != nil {
			return uploadError(c, err)
		}

		return success(c, fiber.Map{"image": image})
	}
}

// UploadImage encodes the multipart "image" file as a data URL and appends
// it to the memo, saving the memo like UpdateMemo does
func UploadImage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		image, err := encodeUpload(c, a)
		if err != nil {
			return uploadError(c, err)
		}

		memo, err := a.Store.AttachImage(c.UserContext(), c.Params("id"), image)
		switch {
		case errors.Is(err, services.ErrMemoNotFound):
			return notFound(c, "Memo not found")
		case errors.Is(err, services.ErrTooManyImages):
			return tooManyImages(c, a)
		case err != nil:
			return serverErrorWithDetails(c, "Failed to save image", err)
		}

		return created(c, fiber.Map{"memo": memo})
	}
}

// encodeUpload reads the "image" form file. Client mistakes come back as
// *fiber.Error.
func encodeUpload(c *fiber.Ctx, a *app.App) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	image, err := dataurl.Encode(file, a.MaxImageBytes)
	switch {
	case errors.Is(err, dataurl.ErrTooLarge):
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Image is too large")
	case errors.Is(err, dataurl.ErrUnsupportedType):
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Only PNG, JPEG and GIF images are supported")
	case errors.Is(err, dataurl.ErrEmpty):
		return "", fiber.NewError(fiber.StatusBadRequest, "Image is empty")
	}
	return image, err
}

func uploadError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return serverErrorWithDetails(c, "Failed to read upload", err)
}

func tooManyImages(c *fiber.Ctx, a *app.App) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error": fmt.Sprintf("A memo can hold at most %d images", a.MaxImagesPerMemo),
	})
}
