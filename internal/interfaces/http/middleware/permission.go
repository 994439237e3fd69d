package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/application/access"
	domain "gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/constants"
	"gatekeeper/internal/shared/logger"
	"gatekeeper/internal/shared/utils"
)

type PermissionMiddleware struct {
	resolver *access.Resolver
	logger   logger.Interface
}

func NewPermissionMiddleware(resolver *access.Resolver, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequirePermission guards a route behind a permission check at the scope
// level named by resourceParam (a path parameter holding the resource id).
func (m *PermissionMiddleware) RequirePermission(code string, scope domain.Scope, resourceParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(constants.ContextKeyUserID)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		resourceID := c.Param(resourceParam)
		if resourceID == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "missing resource identifier")
			c.Abort()
			return
		}

		allowed, err := m.resolver.HasPermission(c.Request.Context(), userID.(uint), code, scope, resourceID)
		if err != nil {
			m.logger.Errorw("permission check failed",
				"error", err, "user_id", userID, "code", code,
				"scope", scope, "resource_id", resourceID)
			utils.AppErrorResponse(c, err)
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", userID, "code", code,
				"scope", scope, "resource_id", resourceID)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
