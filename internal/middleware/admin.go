package middleware

import (
	"errors"
	"net/http"

	"greenmart-io/api/internal/auth"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// AdminOnly restricts access to tokens issued by the admin login.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := auth.InitJwtClaim(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if claim.Role != models.RoleAdmin {
			util.HandleError(c, http.StatusForbidden, errors.New("insufficient permissions: admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
