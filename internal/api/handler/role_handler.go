package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopadmin/backoffice/internal/core/domain"
	"github.com/shopadmin/backoffice/internal/core/ports"
)

type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type rolesResponse struct {
	Roles []domain.Role `json:"roles"`
}

// List returns the role table.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rolesResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roleService.List(c.Request().Context())
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return c.JSON(http.StatusOK, rolesResponse{Roles: roles})
}
