package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/application/access"
	domain "gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/logger"
	"gatekeeper/internal/shared/utils"
)

// AccessHandler exposes assignment mutations and permission queries.
type AccessHandler struct {
	service  *access.Service
	resolver *access.Resolver
	logger   logger.Interface
}

func NewAccessHandler(service *access.Service, resolver *access.Resolver) *AccessHandler {
	return &AccessHandler{
		service:  service,
		resolver: resolver,
		logger:   logger.NewLogger(),
	}
}

type AssignRoleRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Scope      string `json:"scope" binding:"required,oneof=org group team project"`
	ResourceID string `json:"resource_id" binding:"required"`
	OrgID      *uint  `json:"org_id"`
}

type RemoveRoleRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Scope      string `json:"scope" binding:"required,oneof=org group team project"`
	ResourceID string `json:"resource_id" binding:"required"`
}

type AssignDenyRequest struct {
	UserID         uint   `json:"user_id" binding:"required"`
	PermissionCode string `json:"permission_code" binding:"required"`
	Scope          string `json:"scope" binding:"required,oneof=org group team project"`
	ResourceID     string `json:"resource_id" binding:"required"`
	Reason         string `json:"reason"`
}

type RemoveDenyRequest struct {
	UserID         uint   `json:"user_id" binding:"required"`
	PermissionCode string `json:"permission_code" binding:"required"`
	Scope          string `json:"scope" binding:"required,oneof=org group team project"`
	ResourceID     string `json:"resource_id" binding:"required"`
}

type assignmentResponse struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	RoleID     uint   `json:"role_id"`
	Scope      string `json:"scope"`
	ResourceID string `json:"resource_id"`
}

type denyResponse struct {
	ID             uint   `json:"id"`
	UserID         uint   `json:"user_id"`
	PermissionCode string `json:"permission_code"`
	Scope          string `json:"scope"`
	ResourceID     string `json:"resource_id"`
	Reason         string `json:"reason,omitempty"`
}

func (h *AccessHandler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	assignment, err := h.service.AssignRole(c.Request.Context(),
		req.UserID, req.Role, domain.Scope(req.Scope), req.ResourceID, req.OrgID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, assignmentResponse{
		ID:         assignment.ID(),
		UserID:     assignment.UserID(),
		RoleID:     assignment.RoleID(),
		Scope:      assignment.Scope().String(),
		ResourceID: assignment.ResourceID(),
	})
}

func (h *AccessHandler) RemoveRole(c *gin.Context) {
	var req RemoveRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.RemoveRole(c.Request.Context(),
		req.UserID, req.Role, domain.Scope(req.Scope), req.ResourceID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role assignment removed", nil)
}

func (h *AccessHandler) AssignDeny(c *gin.Context) {
	var req AssignDenyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	deny, err := h.service.AssignDeny(c.Request.Context(),
		req.UserID, req.PermissionCode, domain.Scope(req.Scope), req.ResourceID, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, denyResponse{
		ID:             deny.ID(),
		UserID:         deny.UserID(),
		PermissionCode: deny.PermissionCode(),
		Scope:          deny.Scope().String(),
		ResourceID:     deny.ResourceID(),
		Reason:         deny.Reason(),
	})
}

func (h *AccessHandler) RemoveDeny(c *gin.Context) {
	var req RemoveDenyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.RemoveDeny(c.Request.Context(),
		req.UserID, req.PermissionCode, domain.Scope(req.Scope), req.ResourceID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "deny removed", nil)
}

// CheckPermission answers a single yes/no permission question for a user.
func (h *AccessHandler) CheckPermission(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	code := c.Query("code")
	scope, resourceID, ok := h.queryRef(c)
	if !ok {
		return
	}
	if code == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "code is required")
		return
	}

	allowed, err := h.resolver.HasPermission(c.Request.Context(), userID, code, scope, resourceID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "permission checked", gin.H{
		"user_id":     userID,
		"code":        code,
		"scope":       scope.String(),
		"resource_id": resourceID,
		"allowed":     allowed,
	})
}

// ListEffectivePermissions returns the user's allow-minus-deny set at one
// resource.
func (h *AccessHandler) ListEffectivePermissions(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	scope, resourceID, ok := h.queryRef(c)
	if !ok {
		return
	}

	codes, err := h.resolver.ListEffectivePermissions(c.Request.Context(), userID, scope, resourceID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "effective permissions", gin.H{
		"user_id":     userID,
		"scope":       scope.String(),
		"resource_id": resourceID,
		"permissions": codes,
	})
}

func (h *AccessHandler) pathUserID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(userID), true
}

func (h *AccessHandler) queryRef(c *gin.Context) (domain.Scope, string, bool) {
	scope, err := domain.ParseScope(c.Query("scope"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return "", "", false
	}

	resourceID := c.Query("resource_id")
	if resourceID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "resource_id is required")
		return "", "", false
	}

	return scope, resourceID, true
}
