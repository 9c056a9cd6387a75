package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/service"
	"lpatrack/backend/pkg/response"
)

// TaskHandler 检查项目录 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListTasks 按类别分组列出检查项
// GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ImportTasks Excel 批量导入检查项
// POST /api/v1/tasks/import
func (h *TaskHandler) ImportTasks(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 13001, "缺少上传文件 file")
		return
	}
	defer file.Close()

	result, err := h.taskSvc.ImportExcel(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportNoData):
			response.BadRequest(c, 13002, "Excel 文件无数据行")
		case errors.Is(err, service.ErrImportBadHeader):
			response.BadRequest(c, 13003, "Excel 表头缺少必要列")
		case errors.Is(err, service.ErrImportTooManyRows):
			response.BadRequest(c, 13004, "数据行数超过上限")
		default:
			response.BadRequest(c, 13005, "文件解析失败")
		}
		return
	}
	response.OK(c, result)
}
