package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/api/metrics"
	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

// RequirePermission gates a handler behind possession of a named
// permission. The name is resolved to its registry id on each request,
// then tested for membership in the caller's resolved permission set.
// Every ambiguity fails closed: an unknown permission name denies, a
// registry error denies, a missing principal denies.
func RequirePermission(registry ports.PermissionRepository, name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			perm, err := registry.FindByName(c.Request().Context(), name)
			if err != nil {
				metrics.AuthzDecisionsTotal.WithLabelValues("denied", "permission_unknown").Inc()
				if errors.Is(err, domain.ErrPermissionNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "permission not found")
				}
				return err
			}

			if !principal.Permissions.Contains(perm.ID) {
				metrics.AuthzDecisionsTotal.WithLabelValues("denied", "permission_missing").Inc()
				return domain.ErrPermissionDenied
			}

			metrics.AuthzDecisionsTotal.WithLabelValues("allowed", "").Inc()
			return next(c)
		}
	}
}
