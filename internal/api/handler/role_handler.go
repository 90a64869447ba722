package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/core/ports"
)

// RoleHandler handles HTTP requests for role management.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /roles. Member counts are read live per role.
//
// @Summary      List roles with member counts
// @Tags         roles
// @Produce      json
// @Success      200  {array}   roleSummaryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	summaries, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]roleSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, roleSummaryResponse{
			ID:          s.Role.ID,
			Name:        s.Role.Name,
			Description: s.Role.Description,
			MemberCount: s.MemberCount,
			CreatedAt:   s.Role.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, data)
}

// Get handles GET /roles/:id.
//
// @Summary      Get a role with resolved permissions
// @Tags         roles
// @Produce      json
// @Param        id  path      string  true  "Role id"
// @Success      200  {object}  roleDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	perms := make([]permissionResponse, 0, len(detail.Permissions))
	for _, p := range detail.Permissions {
		perms = append(perms, permissionResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}

	return c.JSON(http.StatusOK, roleDetailResponse{
		ID:          detail.Role.ID,
		Name:        detail.Role.Name,
		Description: detail.Role.Description,
		Permissions: perms,
		MemberCount: detail.MemberCount,
		CreatedAt:   detail.Role.CreatedAt,
		UpdatedAt:   detail.Role.UpdatedAt,
	})
}

// Create handles POST /roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.service.Create(c.Request().Context(), ports.CreateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions.IDs(),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	})
}

// Update handles PUT /roles/:id. System roles are immutable.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Role id"
// @Param        body  body      updateRoleRequest  true  "Fields to update"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions.IDs(),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	})
}

// Delete handles DELETE /roles/:id. Fails with a conflict while any
// user still references the role.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Param        id  path      string  true  "Role id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role deleted successfully"})
}
