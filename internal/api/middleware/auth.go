package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contentkit/publishing-api/internal/api/metrics"
	"github.com/contentkit/publishing-api/internal/auth"
	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// identityContextKey is the echo.Context key under which the resolved
// identity is stored. Downstream code reads it through IdentityFrom.
const identityContextKey = "auth.identity"

// SetIdentity attaches a resolved identity to the request context.
// Exposed for handler tests; production code only sets it here.
func SetIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityContextKey, identity)
}

// IdentityFrom returns the identity attached by Authenticate, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(domain.Identity)
	return identity, ok
}

// Authenticate resolves the bearer token to an active user with its role and
// permission set, and attaches the result to the request context. The store
// is consulted on every request, so deactivating a user takes effect
// immediately even for unexpired tokens.
//
// Expired and tampered tokens produce the same outward error on purpose.
func Authenticate(tokens *auth.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			subjectID, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verificationResult(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			identity, err := users.FindActiveByIDWithRole(c.Request().Context(), subjectID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			SetIdentity(c, *identity)
			return next(c)
		}
	}
}

func verificationResult(err error) string {
	if errors.Is(err, auth.ErrTokenExpired) {
		return "expired"
	}
	return "invalid"
}
