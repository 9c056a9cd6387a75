package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/service"
	"lpatrack/backend/pkg/response"
)

// LocationHandler 产线位置 HTTP 处理器
type LocationHandler struct {
	locationSvc service.LocationService
}

// NewLocationHandler 创建 LocationHandler
func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// CreateLocation 登记产线位置
// POST /api/v1/locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.locationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// GetLocation 查询产线位置
// GET /api/v1/locations/:crew
func (h *LocationHandler) GetLocation(c *gin.Context) {
	result, err := h.locationSvc.GetByCrew(c.Request.Context(), c.Param("crew"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListLocations 产线位置列表
// GET /api/v1/locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	var req dto.LocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.locationSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateLocation 更新产线位置
// PUT /api/v1/locations/:crew
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.locationSvc.Update(c.Request.Context(), c.Param("crew"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteLocation 删除产线位置
// DELETE /api/v1/locations/:crew
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.locationSvc.Delete(c.Request.Context(), c.Param("crew")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportLocations Excel 批量导入产线位置
// POST /api/v1/locations/import
func (h *LocationHandler) ImportLocations(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 14001, "缺少上传文件 file")
		return
	}
	defer file.Close()

	result, err := h.locationSvc.ImportExcel(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportNoData):
			response.BadRequest(c, 14002, "Excel 文件无数据行")
		case errors.Is(err, service.ErrImportBadHeader):
			response.BadRequest(c, 14003, "Excel 表头缺少必要列")
		case errors.Is(err, service.ErrImportTooManyRows):
			response.BadRequest(c, 14004, "数据行数超过上限")
		default:
			response.BadRequest(c, 14005, "文件解析失败")
		}
		return
	}
	response.OK(c, result)
}

// handleError 位置模块业务错误 -> HTTP 响应
func (h *LocationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationExists):
		response.Error(c, http.StatusConflict, 14006, "该产线已登记位置")
	case errors.Is(err, service.ErrLocationMissing):
		response.NotFound(c, 14007, "位置不存在")
	default:
		response.InternalError(c)
	}
}
