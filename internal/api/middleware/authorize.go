package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contentkit/publishing-api/internal/api/metrics"
)

// Authorize gates a route on a single required permission string. The check
// is exact membership — "posts.update" never satisfies anything but
// "posts.update". It assumes Authenticate ran earlier in the chain; when it
// did not, the request is rejected as unauthenticated.
func Authorize(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			if !identity.HasPermission(permission) {
				metrics.AuthzDenialsTotal.WithLabelValues(permission).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			return next(c)
		}
	}
}
