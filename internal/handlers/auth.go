package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/inkwellhq/inkwell/internal/auth"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/services"
	"github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/response"
)

type AuthHandler struct {
	login *iauth.LoginService
	perms *services.PermissionService
}

func NewAuthHandler(login *iauth.LoginService, perms *services.PermissionService) *AuthHandler {
	return &AuthHandler{login: login, perms: perms}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" validate:"required,max=64"`
		Password string `json:"password" validate:"required"`
	}
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.login.Login(requestContext(c), body.Username, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/auth/me/permissions
func (h *AuthHandler) MyPermissions(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user_id":     identity.UserID,
		"role":        identity.RoleName,
		"permissions": identity.Permissions,
		"super_admin": identity.IsSuperAdmin(),
	})
}
