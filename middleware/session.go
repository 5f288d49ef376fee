package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

// SessionMiddleware gán session id cho mỗi request, client chưa gửi thì cấp mới.
// Id được trả lại qua header để client giữ xuyên suốt phiên đặt phòng.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		c.Set("sessionID", sessionID)
		c.Writer.Header().Set(sessionHeader, sessionID)

		c.Next()
	}
}
