package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
)

// Audit 写操作审计中间件
// 将非 GET 请求的结果落入 audit_logs（纯追加），写入失败不影响业务响应
func Audit(repo *repository.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		entry := &model.AuditLog{
			Username:  c.GetString("username"),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			entry.Message = c.Errors.ByType(gin.ErrorTypePrivate).String()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := repo.AuditLog.Create(ctx, entry); err != nil {
			logger.Warn("审计日志写入失败", zap.Error(err))
		}
	}
}
