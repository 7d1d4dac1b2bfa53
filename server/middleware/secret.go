package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SecretHeader carries the shared secret configured on the voice platform.
const SecretHeader = "X-Vapi-Secret"

// WebhookSecret rejects requests whose secret header does not match.
// An empty secret disables the check.
func WebhookSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}
			got := c.Request().Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				slog.Warn("rejected webhook with bad secret",
					"path", c.Path(),
					"remote_ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook secret")
			}
			return next(c)
		}
	}
}
