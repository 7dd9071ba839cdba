package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unveil/internal/logging"
)

const (
	requestIDKey   = "request_id"
	authAccountKey = "auth_account_id"
	authProfileKey = "auth_profile_id"
)

// RequestLogger 为每个请求生成 request id，并在结束后输出结构化访问日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()
		c.Set(requestIDKey, reqID)
		c.Header("X-Request-ID", reqID)

		start := time.Now()
		c.Next()

		logging.Log.Infow("request",
			"request_id", reqID,
			"method", c.Request.Method,
			"uri", c.Request.RequestURI,
			"status", c.Writer.Status(),
			"response_size", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}

// TokenRequired 要求请求携带有效的 Bearer 令牌
func (a *API) TokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c) {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// TokenOptional 解析可选的 Bearer 令牌，无令牌或令牌无效时按匿名处理
func (a *API) TokenOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.authenticate(c)
		c.Next()
	}
}

func (a *API) authenticate(c *gin.Context) bool {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return false
	}
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return false
	}
	c.Set(authAccountKey, claims.AccountID)
	c.Set(authProfileKey, claims.ProfileID)
	return true
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// currentProfileID 返回当前登录的 Profile，匿名时为 0
func currentProfileID(c *gin.Context) uint {
	if value, ok := c.Get(authProfileKey); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

func currentAccountID(c *gin.Context) uint {
	if value, ok := c.Get(authAccountKey); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
