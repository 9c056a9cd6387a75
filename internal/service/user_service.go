package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrNotASupervisor   = errors.New("目标用户不是主管")
	ErrNotAnAuditor     = errors.New("仅审核员可指定所属主管")
	ErrCannotDeleteRoot = errors.New("不允许删除 Root 账号")
)

// UserService 用户业务接口
type UserService interface {
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, error)
	Update(ctx context.Context, username string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	// AssignSupervisor 将审核员挂到一名主管名下（belong_to）
	AssignSupervisor(ctx context.Context, username, supervisor string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetByUsername ──────────────────────

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx, repository.UserFilter{
		Role:            req.Role,
		BelongTo:        req.BelongTo,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, username string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	if req.Fullname != nil {
		user.Fullname = *req.Fullname
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("username", username), zap.Error(err))
		return err
	}
	if user.Role == model.RoleRoot {
		return ErrCannotDeleteRoot
	}
	return s.repo.User.Delete(ctx, username)
}

// ────────────────────── AssignSupervisor ──────────────────────

func (s *userService) AssignSupervisor(ctx context.Context, username, supervisor string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleAuditor {
		return nil, ErrNotAnAuditor
	}

	sup, err := s.repo.User.GetByUsername(ctx, supervisor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if sup.Role != model.RoleSupervisor {
		return nil, ErrNotASupervisor
	}

	user.BelongTo = sup.Username
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户归属失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ── 内部辅助方法 ──

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		Username:  user.Username,
		Role:      user.Role,
		Fullname:  user.Fullname,
		Email:     user.Email,
		IsActive:  user.IsActive,
		BelongTo:  user.BelongTo,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
