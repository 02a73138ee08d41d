package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/internal/services"
	"github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/response"
)

type RoleHandler struct {
	svc *services.RoleService
}

func NewRoleHandler(svc *services.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var body struct {
		Name        string `json:"name" validate:"required,max=64"`
		Description string `json:"description" validate:"max=512"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.svc.Create(requestContext(c), services.CreateRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// PATCH /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid role id"))
		return
	}

	var body struct {
		Name        *string `json:"name" validate:"omitempty,max=64"`
		Description *string `json:"description" validate:"omitempty,max=512"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.svc.Update(requestContext(c), id, services.UpdateRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid role id"))
		return
	}
	if err := h.svc.SoftDelete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// PUT /api/roles/:id/permissions
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid role id"))
		return
	}

	var body struct {
		PermissionIDs []uint `json:"permission_ids" validate:"dive,gt=0"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	view, err := h.svc.AssignPermissions(requestContext(c), id, body.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// DELETE /api/roles/:id/permissions
func (h *RoleHandler) RemovePermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid role id"))
		return
	}

	var body struct {
		PermissionIDs []uint `json:"permission_ids" validate:"required,min=1,dive,gt=0"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	view, err := h.svc.RemovePermissions(requestContext(c), id, body.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}
