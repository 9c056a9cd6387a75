package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/service"
	pkgerrors "lpatrack/backend/pkg/errors"
	"lpatrack/backend/pkg/response"
)

// PlanHandler 审核计划 HTTP 处理器
type PlanHandler struct {
	planSvc service.PlanService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// SavePlanning 保存计划（Supervisor/Root 提交）
// POST /api/v1/plannings
func (h *PlanHandler) SavePlanning(c *gin.Context) {
	var req dto.SavePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.SavePlanning(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetPlanWithResults 计划视图：计划任务与已提交结果的只读合并
// GET /api/v1/plannings
func (h *PlanHandler) GetPlanWithResults(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.PlanViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.GetPlanWithResults(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 计划模块业务错误 -> HTTP 响应
func (h *PlanHandler) handleError(c *gin.Context, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithData(c, http.StatusBadRequest, 15001, "缺少必填字段",
			gin.H{"missing_fields": verr.MissingFields})
	case errors.Is(err, service.ErrInvalidShift):
		response.BadRequest(c, 15002, "无效的班次")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 15003, "无效的日期格式")
	case errors.Is(err, service.ErrNoPlanFound):
		response.NotFound(c, 15004, "未找到对应的审核计划")
	case errors.Is(err, pkgerrors.ErrStoreTimeout):
		response.Error(c, http.StatusInternalServerError, 50001, "存储层调用超时，请稍后重试")
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 50002, "存储层暂不可用，请稍后重试")
	default:
		response.InternalError(c)
	}
}
