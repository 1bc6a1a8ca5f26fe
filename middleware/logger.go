package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request id back to the client
const RequestIDHeader = "X-Request-ID"

// StructuredLogger logs one line per request, leveled by outcome
func StructuredLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Honor an id set by a proxy, otherwise mint one
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		} else {
			requestID = utils.CopyString(requestID)
		}

		c.Locals("requestID", requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		status := c.Response().StatusCode()

		logAttrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_in", len(c.Body())),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("ip", c.IP()),
		}

		if memoID := c.Params("id"); memoID != "" {
			logAttrs = append(logAttrs, slog.String("resource_id", memoID))
		}

		switch {
		case err != nil:
			logAttrs = append(logAttrs, slog.String("error", err.Error()))
			logger.LogAttrs(c.Context(), slog.LevelError, "request error", logAttrs...)
		case status >= 500:
			logger.LogAttrs(c.Context(), slog.LevelError, "server error", logAttrs...)
		case status >= 400:
			logger.LogAttrs(c.Context(), slog.LevelWarn, "client error", logAttrs...)
		default:
			logger.LogAttrs(c.Context(), slog.LevelInfo, "request completed", logAttrs...)
		}

		return err
	}
}
