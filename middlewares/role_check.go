package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

// RequireRoles rejects the request unless the authenticated role is one of
// the allowed ones. Admin always passes.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if userRole == models.RoleAdmin {
			c.Next()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%v access required", roles))
		c.Abort()
	}
}
