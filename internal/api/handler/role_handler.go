package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// RoleHandler exposes role management endpoints.
type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type listRolesResponse struct {
	Roles []*domain.RoleWithUserCount `json:"roles"`
}

type roleResponse struct {
	Role *domain.Role `json:"role"`
}

type mutateRoleResponse struct {
	Message string       `json:"message"`
	Role    *domain.Role `json:"role"`
}

// List handles GET /roles, including per-role assigned-user counts.
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roleService.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []*domain.RoleWithUserCount{}
	}
	return c.JSON(http.StatusOK, listRolesResponse{Roles: roles})
}

// Get handles GET /roles/:id.
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.roleService.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleResponse{Role: role})
}

// Create handles POST /roles.
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.CreateRole(c.Request().Context(), ports.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, mutateRoleResponse{Message: "Role created successfully", Role: role})
}

// Update handles PUT /roles/:id with a full replacement of the editable fields.
func (h *RoleHandler) Update(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.UpdateRole(c.Request().Context(), c.Param("id"), ports.UpdateRoleFields{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mutateRoleResponse{Message: "Role updated successfully", Role: role})
}

// Delete handles DELETE /roles/:id. Fails while users still hold the role.
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.roleService.DeleteRole(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Role deleted successfully"})
}
