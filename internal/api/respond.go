package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// respondData wraps a payload in the uniform response envelope.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
		"error":   nil,
	})
}

// respondError reports a failure in the envelope. Server-side failures
// are logged; client errors are the caller's problem.
func respondError(c *gin.Context, status int, msg string) {
	if status >= 500 {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("error", msg))
	}
	c.JSON(status, gin.H{
		"success": false,
		"data":    nil,
		"error":   msg,
	})
}

// parseID converts a path parameter to int64, rejecting the request on
// malformed input.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid identifier")
		return 0, false
	}
	return id, true
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
