package handler

import (
	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/service"
	"lpatrack/backend/pkg/response"
)

// AuditLogHandler 审计日志 HTTP 处理器
type AuditLogHandler struct {
	logSvc service.AuditLogService
}

// NewAuditLogHandler 创建 AuditLogHandler
func NewAuditLogHandler(logSvc service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{logSvc: logSvc}
}

// ListLogs 分页列出审计日志
// GET /api/v1/logs
func (h *AuditLogHandler) ListLogs(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.logSvc.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
