package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/api/middleware"
	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Authenticate
// middleware and fast-fails before any service call: a missing
// principal means the middleware did not run, so the request is
// rejected rather than trusted.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
