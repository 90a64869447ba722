package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/core/ports"
)

// PermissionHandler exposes the read-only permission registry.
type PermissionHandler struct {
	registry ports.PermissionRepository
}

func NewPermissionHandler(registry ports.PermissionRepository) *PermissionHandler {
	return &PermissionHandler{registry: registry}
}

// List handles GET /permissions.
//
// @Summary      List all permissions
// @Tags         permissions
// @Produce      json
// @Success      200  {array}   permissionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	perms, err := h.registry.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		data = append(data, permissionResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	return c.JSON(http.StatusOK, data)
}
