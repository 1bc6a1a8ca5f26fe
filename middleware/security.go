package middleware

import "github.com/gofiber/fiber/v2"

// Security sets response hardening headers. Memo images are data URLs, so
// img-src allows data: and nothing remote.
func Security() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Content-Security-Policy", "default-src 'none'; img-src 'self' data:; frame-ancestors 'none'")
		c.Set("Cache-Control", "no-store")
		return c.Next()
	}
}
