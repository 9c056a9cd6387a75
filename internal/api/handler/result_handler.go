package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/service"
	pkgerrors "lpatrack/backend/pkg/errors"
	"lpatrack/backend/pkg/response"
)

// ResultHandler 审核结果 HTTP 处理器
type ResultHandler struct {
	resultSvc service.ResultService
}

// NewResultHandler 创建 ResultHandler
func NewResultHandler(resultSvc service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// SubmitResult 提交一条检查项结果
// POST /api/v1/results
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求体解析失败")
		return
	}

	result, err := h.resultSvc.SubmitResult(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetResult 查询 (crew, shift, date) 对应的结果记录
// GET /api/v1/results/one
func (h *ResultHandler) GetResult(c *gin.Context) {
	result, err := h.resultSvc.GetResult(c.Request.Context(),
		c.Query("crew"), c.Query("shift"), c.Query("date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListResults 结果记录列表
// GET /api/v1/results
func (h *ResultHandler) ListResults(c *gin.Context) {
	var req dto.ResultListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.resultSvc.ListResults(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ExportResults 导出结果为 Excel
// GET /api/v1/results/export
func (h *ResultHandler) ExportResults(c *gin.Context) {
	var req dto.ResultListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.resultSvc.ExportResults(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// handleError 结果模块业务错误 -> HTTP 响应
func (h *ResultHandler) handleError(c *gin.Context, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithData(c, http.StatusBadRequest, 16001, "缺少必填字段",
			gin.H{"missing_fields": verr.MissingFields})
	case errors.Is(err, service.ErrInvalidResult):
		response.BadRequest(c, 16002, "无效的结果值")
	case errors.Is(err, service.ErrInvalidShift):
		response.BadRequest(c, 15002, "无效的班次")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 15003, "无效的日期格式")
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 16003, "该检查项不在对应班次的审核计划内")
	case errors.Is(err, service.ErrLocationMissing):
		response.NotFound(c, 14007, "该产线未登记位置")
	case errors.Is(err, service.ErrResultNotFound):
		response.NotFound(c, 16004, "结果记录不存在")
	case errors.Is(err, service.ErrExportNoResults):
		response.NotFound(c, 16005, "无符合条件的审核结果可导出")
	case errors.Is(err, service.ErrExportGenerate):
		response.InternalError(c)
	case errors.Is(err, pkgerrors.ErrStoreTimeout):
		response.Error(c, http.StatusInternalServerError, 50001, "存储层调用超时，请稍后重试")
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 50002, "存储层暂不可用，请稍后重试")
	default:
		response.InternalError(c)
	}
}
