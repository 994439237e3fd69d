package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/application/access"
	domain "gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/logger"
	"gatekeeper/internal/shared/utils"
)

// CatalogHandler exposes the administrative permission and role registries.
type CatalogHandler struct {
	catalog *access.Catalog
	logger  logger.Interface
}

func NewCatalogHandler(catalog *access.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.NewLogger(),
	}
}

type RegisterPermissionRequest struct {
	Code        string `json:"code" binding:"required"`
	Module      string `json:"module" binding:"required"`
	Description string `json:"description"`
}

type RegisterRoleRequest struct {
	Name  string `json:"name" binding:"required"`
	Scope string `json:"scope" binding:"required,oneof=org group team project"`
	OrgID *uint  `json:"org_id"`
}

type permissionResponse struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Module      string `json:"module"`
	Description string `json:"description,omitempty"`
}

type roleResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	OrgID    *uint  `json:"org_id,omitempty"`
	IsSystem bool   `json:"is_system"`
}

func (h *CatalogHandler) RegisterPermission(c *gin.Context) {
	var req RegisterPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	permission, err := h.catalog.RegisterPermission(c.Request.Context(), req.Code, req.Module, req.Description)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, permissionResponse{
		ID:          permission.ID(),
		Code:        permission.Code(),
		Module:      permission.Module(),
		Description: permission.Description(),
	})
}

func (h *CatalogHandler) RegisterRole(c *gin.Context) {
	var req RegisterRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.catalog.RegisterRole(c.Request.Context(), req.Name, domain.Scope(req.Scope), req.OrgID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, roleResponse{
		ID:       role.ID(),
		Name:     role.Name(),
		Scope:    role.Scope().String(),
		OrgID:    role.OrgID(),
		IsSystem: role.IsSystem(),
	})
}

func (h *CatalogHandler) ResolveRole(c *gin.Context) {
	scope, err := domain.ParseScope(c.Query("scope"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	name := c.Query("name")
	if name == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	var orgID *uint
	if raw := c.Query("org_id"); raw != "" {
		parsed, err := parseUintQuery(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid org_id")
			return
		}
		orgID = &parsed
	}

	role, err := h.catalog.ResolveRole(c.Request.Context(), name, scope, orgID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role resolved", roleResponse{
		ID:       role.ID(),
		Name:     role.Name(),
		Scope:    role.Scope().String(),
		OrgID:    role.OrgID(),
		IsSystem: role.IsSystem(),
	})
}
