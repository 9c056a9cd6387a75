package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/service"
	"lpatrack/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser 查询本人信息
// GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetByUsername(c.Request.Context(), actor.Username)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetUser 查询指定用户
// GET /api/v1/users/:username
func (h *UserHandler) GetUser(c *gin.Context) {
	result, err := h.userSvc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListUsers 用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	// 主管默认只看自己名下的审核员
	if actor.Role == model.RoleSupervisor && req.BelongTo == "" {
		req.BelongTo = actor.Username
	}

	result, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateUser 更新用户资料
// PUT /api/v1/users/:username
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), c.Param("username"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteUser 删除用户
// DELETE /api/v1/users/:username
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), c.Param("username")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// AssignSupervisor 指定审核员所属主管
// PUT /api/v1/users/:username/supervisor
func (h *UserHandler) AssignSupervisor(c *gin.Context) {
	var req dto.AssignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.AssignSupervisor(c.Request.Context(), c.Param("username"), req.Supervisor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 用户模块业务错误 -> HTTP 响应
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrNotASupervisor):
		response.BadRequest(c, 12002, "目标用户不是主管")
	case errors.Is(err, service.ErrNotAnAuditor):
		response.BadRequest(c, 12003, "仅审核员可指定所属主管")
	case errors.Is(err, service.ErrCannotDeleteRoot):
		response.Forbidden(c, 12004, "不允许删除 Root 账号")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
