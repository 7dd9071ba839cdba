package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/locale"
)

const languageKey = "request_language"

// LocaleMiddleware 解析请求语言（?lang= 优先，其次 Accept-Language），供错误提示使用。
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		language := locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set(languageKey, language)
		c.Header("Content-Language", language)
		appendVaryHeader(c, "Accept-Language")
		c.Next()
	}
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	existing := c.Writer.Header().Get("Vary")
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	for _, token := range append(strings.Split(existing, ","), headers...) {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		order = append(order, trimmed)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}
