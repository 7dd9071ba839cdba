package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/logging"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": localize(c, message)})
}

// respondInternal 记录原始错误后返回 500，错误细节不暴露给客户端。
func respondInternal(c *gin.Context, err error, message string) {
	logging.Log.Errorw("request failed",
		"request_id", c.GetString(requestIDKey),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, message)
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseNonNegativeInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
