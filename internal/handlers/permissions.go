package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/internal/services"
	"github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/response"
)

type PermissionHandler struct {
	svc *services.PermissionService
}

func NewPermissionHandler(svc *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{svc: svc}
}

func deletedStateFrom(raw string) services.DeletedState {
	switch raw {
	case "only":
		return services.DeletedStateOnly
	case "all":
		return services.DeletedStateAll
	default:
		return services.DeletedStateActive
	}
}

// GET /api/permissions
func (h *PermissionHandler) List(c *gin.Context) {
	opts := services.ListPermissionsOptions{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_order") == "desc",
		Deleted:  deletedStateFrom(c.Query("deleted")),
	}

	perms, total, err := h.svc.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, perms, response.NewMeta(total, opts.Page, opts.Limit))
}

// GET /api/permissions/options
func (h *PermissionHandler) Options(c *gin.Context) {
	groups, err := h.svc.Options(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups)
}

// GET /api/permissions/:id
func (h *PermissionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid permission id"))
		return
	}
	perm, err := h.svc.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perm)
}

// POST /api/permissions
func (h *PermissionHandler) Create(c *gin.Context) {
	var body struct {
		Name        string         `json:"name" validate:"required,max=128,permission_name"`
		Description string         `json:"description" validate:"max=512"`
		Meta        map[string]any `json:"meta"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	perm, err := h.svc.Create(requestContext(c), services.CreatePermissionInput{
		Name:        body.Name,
		Description: body.Description,
		Meta:        body.Meta,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, perm)
}

// PATCH /api/permissions/:id
func (h *PermissionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid permission id"))
		return
	}

	var body struct {
		Name        *string        `json:"name" validate:"omitempty,max=128,permission_name"`
		Description *string        `json:"description" validate:"omitempty,max=512"`
		Meta        map[string]any `json:"meta"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	perm, err := h.svc.Update(requestContext(c), id, services.UpdatePermissionInput{
		Name:        body.Name,
		Description: body.Description,
		Meta:        body.Meta,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perm)
}

// DELETE /api/permissions/:id
func (h *PermissionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid permission id"))
		return
	}
	if err := h.svc.SoftDelete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/permissions/:id/restore
func (h *PermissionHandler) Restore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid permission id"))
		return
	}
	perm, err := h.svc.Restore(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perm)
}

// DELETE /api/permissions/:id/permanent
func (h *PermissionHandler) PermanentDelete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewBadRequest("invalid permission id"))
		return
	}
	if err := h.svc.PermanentDelete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/permissions/sync
func (h *PermissionHandler) Sync(c *gin.Context) {
	result, err := h.svc.Sync(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
