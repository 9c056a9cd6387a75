package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *mockUserRepo) {
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:     userRepo,
		Task:     newMockTaskRepo(),
		Location: newMockLocationRepo(),
		Plan:     newMockPlanRepo(),
		Result:   newMockResultRepo(),
		AuditLog: newMockAuditLogRepo(),
	}
	svc := NewUserService(repo, zap.NewNop())
	return svc, userRepo
}

// ── GetByUsername / List 测试 ──

func TestUserService_GetByUsername_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	if _, err := svc.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}

func TestUserService_List_FilterByBelongTo(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["a1"] = &model.User{Username: "a1", Role: model.RoleAuditor, BelongTo: "boss", IsActive: true}
	userRepo.users["a2"] = &model.User{Username: "a2", Role: model.RoleAuditor, BelongTo: "other", IsActive: true}

	users, err := svc.List(context.Background(), &dto.UserListRequest{BelongTo: "boss"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(users) != 1 || users[0].Username != "a1" {
		t.Errorf("期望仅 a1，实际=%+v", users)
	}
}

func TestUserService_List_ExcludesInactiveByDefault(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["a1"] = &model.User{Username: "a1", Role: model.RoleAuditor, IsActive: true}
	userRepo.users["a2"] = &model.User{Username: "a2", Role: model.RoleAuditor, IsActive: false}

	users, err := svc.List(context.Background(), &dto.UserListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("默认不应包含停用账号，实际=%d 个", len(users))
	}
}

// ── Update / Delete 测试 ──

func TestUserService_Update_Deactivate(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["a1"] = &model.User{Username: "a1", Role: model.RoleAuditor, IsActive: true}

	inactive := false
	resp, err := svc.Update(context.Background(), "a1", &dto.UpdateUserRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.IsActive {
		t.Error("期望账号已停用")
	}
}

func TestUserService_Delete_RootProtected(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["root"] = &model.User{Username: "root", Role: model.RoleRoot, IsActive: true}

	if err := svc.Delete(context.Background(), "root"); !errors.Is(err, ErrCannotDeleteRoot) {
		t.Errorf("期望 ErrCannotDeleteRoot，实际=%v", err)
	}
	if _, ok := userRepo.users["root"]; !ok {
		t.Error("Root 账号不应被删除")
	}
}

// ── AssignSupervisor 测试 ──

func TestUserService_AssignSupervisor_Success(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["a1"] = &model.User{Username: "a1", Role: model.RoleAuditor, IsActive: true}
	userRepo.users["boss"] = &model.User{Username: "boss", Role: model.RoleSupervisor, IsActive: true}

	resp, err := svc.AssignSupervisor(context.Background(), "a1", "boss")
	if err != nil {
		t.Fatalf("AssignSupervisor 应成功: %v", err)
	}
	if resp.BelongTo != "boss" {
		t.Errorf("期望 belong_to=boss，实际=%s", resp.BelongTo)
	}
}

func TestUserService_AssignSupervisor_TargetNotSupervisor(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["a1"] = &model.User{Username: "a1", Role: model.RoleAuditor, IsActive: true}
	userRepo.users["a2"] = &model.User{Username: "a2", Role: model.RoleAuditor, IsActive: true}

	if _, err := svc.AssignSupervisor(context.Background(), "a1", "a2"); !errors.Is(err, ErrNotASupervisor) {
		t.Errorf("期望 ErrNotASupervisor，实际=%v", err)
	}
}

func TestUserService_AssignSupervisor_OnlyAuditor(t *testing.T) {
	svc, userRepo := setupTestUserService()
	userRepo.users["v1"] = &model.User{Username: "v1", Role: model.RoleViewer, IsActive: true}
	userRepo.users["boss"] = &model.User{Username: "boss", Role: model.RoleSupervisor, IsActive: true}

	if _, err := svc.AssignSupervisor(context.Background(), "v1", "boss"); !errors.Is(err, ErrNotAnAuditor) {
		t.Errorf("期望 ErrNotAnAuditor，实际=%v", err)
	}
}
