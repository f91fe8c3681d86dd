// Package resp holds the API's response conventions: success bodies are
// plain JSON payloads, error bodies carry a single "detail" message.
package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// detailBody is the error shape for ALL failure responses.
type detailBody struct {
	Detail string `json:"detail"`
}

const DetailInternal = "Internal server error"

func Error(c *gin.Context, httpCode int, detail string) {
	c.JSON(httpCode, detailBody{Detail: detail})
}

// AbortError stops the handler chain and sends the error body (for middleware).
func AbortError(c *gin.Context, httpCode int, detail string) {
	c.AbortWithStatusJSON(httpCode, detailBody{Detail: detail})
}

func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, DetailInternal)
}
