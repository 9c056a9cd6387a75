package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestTaskService() (TaskService, *mockTaskRepo) {
	taskRepo := newMockTaskRepo()
	repo := &repository.Repository{
		User:     newMockUserRepo(),
		Task:     taskRepo,
		Location: newMockLocationRepo(),
		Plan:     newMockPlanRepo(),
		Result:   newMockResultRepo(),
		AuditLog: newMockAuditLogRepo(),
	}
	svc := NewTaskService(repo, zap.NewNop())
	return svc, taskRepo
}

// buildTaskExcel 构造内存中的检查项导入文件
func buildTaskExcel(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue("Sheet1", cell, v)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("构造测试 Excel 失败: %v", err)
	}
	return buf
}

// ── List 测试 ──

func TestTaskService_List_GroupedByCategory(t *testing.T) {
	svc, taskRepo := setupTestTaskService()
	seedTask(taskRepo, "t1", "检查扭矩标定", "SAFETY", 2)
	seedTask(taskRepo, "t2", "确认防错装置", "SAFETY", 1)
	seedTask(taskRepo, "t3", "核对作业指导书", "PROCESS", 1)

	resp, err := svc.List(context.Background(), &dto.TaskListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(resp.Categories) != 2 {
		t.Fatalf("期望 2 个类别，实际=%d", len(resp.Categories))
	}

	safety := resp.Categories["SAFETY"]
	if len(safety) != 2 || safety[0].Sequence != 1 || safety[1].Sequence != 2 {
		t.Errorf("类别内应按 sequence 升序: %+v", safety)
	}
}

// ── ImportExcel 测试 ──

func TestTaskService_ImportExcel_Success(t *testing.T) {
	svc, taskRepo := setupTestTaskService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"CATEGORY", "SEQUENCE", "TASK"},
		{"SAFETY", 1, "确认防错装置"},
		{"SAFETY", 2, "检查扭矩标定"},
		{"PROCESS", 1, "核对作业指导书"},
	})

	resp, err := svc.ImportExcel(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportExcel 应成功: %v", err)
	}
	if resp.Total != 3 || resp.Imported != 3 || len(resp.Skipped) != 0 {
		t.Errorf("期望全部导入: %+v", resp)
	}
	if len(taskRepo.tasks) != 3 {
		t.Errorf("期望写入 3 条，实际=%d", len(taskRepo.tasks))
	}
}

func TestTaskService_ImportExcel_FlexibleColumnOrder(t *testing.T) {
	svc, taskRepo := setupTestTaskService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"TASK", "CATEGORY", "SEQUENCE"},
		{"确认防错装置", "SAFETY", 1},
	})

	if _, err := svc.ImportExcel(context.Background(), buf); err != nil {
		t.Fatalf("列序不同的导入应成功: %v", err)
	}
	if len(taskRepo.tasks) != 1 {
		t.Errorf("期望写入 1 条，实际=%d", len(taskRepo.tasks))
	}
}

func TestTaskService_ImportExcel_Idempotent(t *testing.T) {
	svc, taskRepo := setupTestTaskService()

	rows := [][]interface{}{
		{"CATEGORY", "SEQUENCE", "TASK"},
		{"SAFETY", 1, "确认防错装置"},
	}
	if _, err := svc.ImportExcel(context.Background(), buildTaskExcel(t, rows)); err != nil {
		t.Fatalf("首次导入应成功: %v", err)
	}

	// 同 (category, sequence) 重复导入：更新原条目
	rows[1][2] = "确认防错装置（修订）"
	if _, err := svc.ImportExcel(context.Background(), buildTaskExcel(t, rows)); err != nil {
		t.Fatalf("重复导入应成功: %v", err)
	}
	if len(taskRepo.tasks) != 1 {
		t.Fatalf("期望仍为 1 条，实际=%d", len(taskRepo.tasks))
	}
	for _, def := range taskRepo.tasks {
		if def.Task != "确认防错装置（修订）" {
			t.Errorf("期望任务描述已更新，实际=%s", def.Task)
		}
	}
}

func TestTaskService_ImportExcel_BadHeader(t *testing.T) {
	svc, _ := setupTestTaskService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"CATEGORY", "TASK"},
		{"SAFETY", "确认防错装置"},
	})

	if _, err := svc.ImportExcel(context.Background(), buf); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际=%v", err)
	}
}

func TestTaskService_ImportExcel_SkipsInvalidRows(t *testing.T) {
	svc, taskRepo := setupTestTaskService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"CATEGORY", "SEQUENCE", "TASK"},
		{"SAFETY", 1, "确认防错装置"},
		{"SAFETY", "abc", "坏行"},
		{"", 3, "缺类别"},
	})

	resp, err := svc.ImportExcel(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportExcel 应成功: %v", err)
	}
	if resp.Imported != 1 || len(resp.Skipped) != 2 {
		t.Errorf("期望导入 1 条跳过 2 条: %+v", resp)
	}
	if len(taskRepo.tasks) != 1 {
		t.Errorf("期望仅写入 1 条，实际=%d", len(taskRepo.tasks))
	}
}

func TestTaskService_ImportExcel_NoData(t *testing.T) {
	svc, _ := setupTestTaskService()

	buf := buildTaskExcel(t, [][]interface{}{
		{"CATEGORY", "SEQUENCE", "TASK"},
	})

	if _, err := svc.ImportExcel(context.Background(), buf); !errors.Is(err, ErrImportNoData) {
		t.Errorf("期望 ErrImportNoData，实际=%v", err)
	}
}
