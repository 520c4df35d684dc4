package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposals-console/internal/interface/http/response"
)

// IDValidator проверяет, что параметр является положительным целым id, и кладёт его в контекст.
// Нечисловой id означает несуществующую страницу.
// Использование: router.GET("/proposals/:id", IDValidator("id"), handler.Detail)
func IDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
		if err != nil || id <= 0 {
			if response.WantsJSON(c) {
				response.NotFound(c, "параметр "+paramName+" должен быть положительным целым")
			} else {
				RenderNotFound(c)
			}
			c.Abort()
			return
		}

		c.Set(ContextIDKey, id)
		c.Next()
	}
}

// IDFrom возвращает id, проверенный IDValidator.
func IDFrom(c *gin.Context) int64 {
	return c.GetInt64(ContextIDKey)
}
