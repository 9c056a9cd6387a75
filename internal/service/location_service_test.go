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

func setupTestLocationService() (LocationService, *mockLocationRepo) {
	locationRepo := newMockLocationRepo()
	repo := &repository.Repository{
		User:     newMockUserRepo(),
		Task:     newMockTaskRepo(),
		Location: locationRepo,
		Plan:     newMockPlanRepo(),
		Result:   newMockResultRepo(),
		AuditLog: newMockAuditLogRepo(),
	}
	svc := NewLocationService(repo, zap.NewNop())
	return svc, locationRepo
}

// ── Create / Update 测试 ──

func TestLocationService_Create_Success(t *testing.T) {
	svc, _ := setupTestLocationService()

	resp, err := svc.Create(context.Background(), &dto.CreateLocationRequest{
		Crew:      "C01",
		Project:   "P1",
		Family:    "F1",
		Line:      "L1",
		Headcount: 8,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Crew != "C01" || resp.Headcount != 8 {
		t.Errorf("位置信息错误: %+v", resp)
	}
}

func TestLocationService_Create_Duplicate(t *testing.T) {
	svc, locationRepo := setupTestLocationService()
	locationRepo.locations["C01"] = &model.Location{Crew: "C01"}

	_, err := svc.Create(context.Background(), &dto.CreateLocationRequest{Crew: "C01"})
	if !errors.Is(err, ErrLocationExists) {
		t.Errorf("期望 ErrLocationExists，实际=%v", err)
	}
}

func TestLocationService_Update_Partial(t *testing.T) {
	svc, locationRepo := setupTestLocationService()
	locationRepo.locations["C01"] = &model.Location{Crew: "C01", Project: "P1", Line: "L1"}

	newLine := "L9"
	resp, err := svc.Update(context.Background(), "C01", &dto.UpdateLocationRequest{Line: &newLine})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Line != "L9" || resp.Project != "P1" {
		t.Errorf("期望仅 line 变更: %+v", resp)
	}
}

func TestLocationService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestLocationService()

	newLine := "L9"
	if _, err := svc.Update(context.Background(), "ghost", &dto.UpdateLocationRequest{Line: &newLine}); !errors.Is(err, ErrLocationMissing) {
		t.Errorf("期望 ErrLocationMissing，实际=%v", err)
	}
}

// ── List / Delete 测试 ──

func TestLocationService_List_FilterByProject(t *testing.T) {
	svc, locationRepo := setupTestLocationService()
	locationRepo.locations["C01"] = &model.Location{Crew: "C01", Project: "P1"}
	locationRepo.locations["C02"] = &model.Location{Crew: "C02", Project: "P2"}

	locations, err := svc.List(context.Background(), &dto.LocationListRequest{Project: "P1"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(locations) != 1 || locations[0].Crew != "C01" {
		t.Errorf("期望仅 C01，实际=%+v", locations)
	}
}

func TestLocationService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestLocationService()

	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, ErrLocationMissing) {
		t.Errorf("期望 ErrLocationMissing，实际=%v", err)
	}
}

// ── ImportExcel 测试 ──

func TestLocationService_ImportExcel_Success(t *testing.T) {
	svc, locationRepo := setupTestLocationService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"PROJECT", "FAMILY", "LINE", "CREW", "HEADCOUNT"},
		{"P1", "F1", "L1", "C01", 8},
		{"P1", "F1", "L2", "C02", 6},
	})

	resp, err := svc.ImportExcel(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportExcel 应成功: %v", err)
	}
	if resp.Imported != 2 {
		t.Errorf("期望导入 2 条: %+v", resp)
	}
	if locationRepo.locations["C01"].Headcount != 8 {
		t.Errorf("期望 C01 编制=8，实际=%d", locationRepo.locations["C01"].Headcount)
	}
}

func TestLocationService_ImportExcel_SkipsMissingCrew(t *testing.T) {
	svc, locationRepo := setupTestLocationService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"PROJECT", "FAMILY", "LINE", "CREW"},
		{"P1", "F1", "L1", "C01"},
		{"P1", "F1", "L2", ""},
	})

	resp, err := svc.ImportExcel(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportExcel 应成功: %v", err)
	}
	if resp.Imported != 1 || len(resp.Skipped) != 1 {
		t.Errorf("期望导入 1 条跳过 1 条: %+v", resp)
	}
	if len(locationRepo.locations) != 1 {
		t.Errorf("期望仅写入 1 条，实际=%d", len(locationRepo.locations))
	}
}

func TestLocationService_ImportExcel_MissingCrewColumn(t *testing.T) {
	svc, _ := setupTestLocationService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"PROJECT", "FAMILY", "LINE"},
		{"P1", "F1", "L1"},
	})

	if _, err := svc.ImportExcel(context.Background(), buf); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际=%v", err)
	}
}
