package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contentkit/publishing-api/internal/api/middleware"
	"github.com/contentkit/publishing-api/internal/core/domain"
)

// ctxIdentity extracts the identity attached by the authentication gate.
// Absence means the route was registered without the gate — reject rather
// than proceed with no identity.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return identity, nil
}
