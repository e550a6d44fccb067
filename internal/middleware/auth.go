package middleware

import (
	"scorm_rte/internal/config"
	"scorm_rte/internal/util"
	"scorm_rte/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionAuthMiddleware 校验会话令牌，令牌中的会话必须与路径中的 :id 一致
func SessionAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// sendBeacon 无法设置请求头，卸载时通过 query 传递
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("session token rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if id := c.Param("id"); id != "" && id != claims.SessionID {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Set(util.ContextSessionClaims, claims)
		c.Next()
	}
}
