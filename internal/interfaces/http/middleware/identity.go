package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/shared/constants"
	"gatekeeper/internal/shared/utils"
)

// Identity trusts the authenticating gateway in front of this service and
// lifts its X-User-ID header into the request context.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid user identity")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, uint(userID))
		c.Next()
	}
}
