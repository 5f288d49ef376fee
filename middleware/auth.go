package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mavryk256/hotel-management/response"
	"github.com/mavryk256/hotel-management/services"
)

// AuthMiddleware xác thực JWT và giới hạn truy cập theo role.
// Không truyền role nào thì chỉ cần token hợp lệ.
// Role: 0 khách, 1 superadmin, 2 admin, 3 lễ tân.
func AuthMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userID, userRole, err := services.GetUserIDFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if len(roles) > 0 && !roleAllowed(userRole, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		// Controller lấy userID/userRole từ context khi cần
		c.Set("userID", userID)
		c.Set("userRole", userRole)
		c.Next()
	}
}

func roleAllowed(userRole int, roles []int) bool {
	for _, role := range roles {
		if role == userRole {
			return true
		}
	}
	return false
}
