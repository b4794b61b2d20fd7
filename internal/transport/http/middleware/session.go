package middleware

import (
	"checkout-service/internal/service"

	"github.com/gin-gonic/gin"
)

const SessionHeader = "X-Session-ID"

// Session прокидывает идентификатор сессии в контекст запроса.
// Отсутствие заголовка не ошибка: операции, требующие сессию, обрабатывают
// её отсутствие сами.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid := c.GetHeader(SessionHeader); sid != "" {
			ctx := service.WithSessionID(c.Request.Context(), sid)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
