package setup

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"memo-notes/config"
	"memo-notes/pkg/dataurl"

	"github.com/gofiber/fiber/v2"
)

// NewFiberApp creates and configures a new Fiber application
func NewFiberApp(cfg *config.Config, logger *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 30,
		DisableStartupMessage: cfg.Env == "production",
		ErrorHandler:          CustomErrorHandler(logger),
		ReadBufferSize:        8192,
		BodyLimit:             bodyLimit(cfg.MaxImageBytes, cfg.MaxImagesPerMemo),
	})
}

// bodyTextAllowance covers title, content and JSON framing of a full save
const bodyTextAllowance = 1 << 20

// bodyLimit fits a PUT of a memo holding maxImages data URLs of the largest
// accepted upload. The result is clamped to a 32-bit int.
func bodyLimit(maxImageBytes int64, maxImages int) int {
	perImage := dataurl.MaxEncodedLen(maxImageBytes) + int64(len(`"",`))
	images := int64(max(maxImages, 1))

	if perImage > (math.MaxInt32-bodyTextAllowance)/images {
		return math.MaxInt32
	}
	return int(perImage*images + bodyTextAllowance)
}

// CustomErrorHandler returns a custom error handler for Fiber
func CustomErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		requestID := ""
		if id, ok := c.Locals("requestID").(string); ok {
			requestID = id
		}

		level := slog.LevelError
		if code < fiber.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.UserContext(), level, "request failed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(fiber.Map{
			"error":      message,
			"request_id": requestID,
		})
	}
}
