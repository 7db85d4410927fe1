package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/utils"
)

// AdminAuthMiddleware guards the dashboard endpoints. The token must be a
// valid bearer token and the account it references must still exist, so a
// token issued for a deleted account stops working immediately.
func AdminAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		var admin models.Admin
		if err := db.First(&admin, claims.AdminID).Error; err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("account no longer exists"))
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("admin_id", admin.ID)
		c.Set("role", admin.Role)
		c.Next()
	}
}
