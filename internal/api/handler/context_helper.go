package handler

import (
	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/pkg/response"
)

// MustGetActor 从 Gin 上下文中安全提取请求者身份。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (dto.Actor, bool) {
	username := c.GetString("username")
	role := c.GetString("role")
	if username == "" || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Actor{}, false
	}
	return dto.Actor{
		Username: username,
		Role:     role,
		IsActive: c.GetBool("is_active"),
	}, true
}
