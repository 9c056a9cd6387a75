package service

import (
	"context"

	"go.uber.org/zap"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/repository"
)

// AuditLogService 请求审计日志业务接口
type AuditLogService interface {
	// List 分页列出审计日志，按时间倒序
	List(ctx context.Context, page, pageSize int) (*dto.AuditLogListResponse, error)
}

type auditLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditLogService 创建 AuditLogService 实例
func NewAuditLogService(repo *repository.Repository, logger *zap.Logger) AuditLogService {
	return &auditLogService{repo: repo, logger: logger}
}

func (s *auditLogService) List(ctx context.Context, page, pageSize int) (*dto.AuditLogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	logs, total, err := s.repo.AuditLog.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出审计日志失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AuditLogListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Logs:     make([]dto.AuditLogResponse, 0, len(logs)),
	}
	for _, log := range logs {
		resp.Logs = append(resp.Logs, dto.AuditLogResponse{
			LogID:     log.LogID,
			Username:  log.Username,
			Method:    log.Method,
			Path:      log.Path,
			Status:    log.Status,
			Message:   log.Message,
			LatencyMs: log.LatencyMs,
			CreatedAt: log.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return resp, nil
}
