package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/server/resp"
)

// Recovery intercepts any panic escaping a handler, logs it once at error
// level and answers with a generic 500 body. Nothing about the failure
// reaches the caller.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("unhandled panic",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
				resp.AbortError(c, http.StatusInternalServerError, resp.DetailInternal)
			}
		}()
		c.Next()
	}
}
