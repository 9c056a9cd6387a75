package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
)

// ── 检查项目录业务错误 ──

var (
	ErrTaskNotFound      = errors.New("检查项不存在")
	ErrImportNoData      = errors.New("Excel 文件无数据行（第一行为表头）")
	ErrImportBadHeader   = errors.New("Excel 表头缺少必要列")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
)

const maxImportRows = 2000

// TaskService 检查项目录业务接口
type TaskService interface {
	// List 按类别分组列出检查项，类别内按 sequence 升序
	List(ctx context.Context, req *dto.TaskListRequest) (*dto.CategorizedTasksResponse, error)
	// ImportExcel 批量导入检查项，按 (category, sequence) 幂等更新
	ImportExcel(ctx context.Context, reader io.Reader) (*dto.ImportResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *taskService) List(ctx context.Context, req *dto.TaskListRequest) (*dto.CategorizedTasksResponse, error) {
	tasks, err := s.repo.Task.List(ctx, req.Category)
	if err != nil {
		s.logger.Error("列出检查项失败", zap.Error(err))
		return nil, err
	}

	categories := make(map[string][]dto.TaskResponse)
	for i := range tasks {
		t := &tasks[i]
		categories[t.Category] = append(categories[t.Category], dto.TaskResponse{
			TaskID:   t.TaskID,
			Task:     t.Task,
			Category: t.Category,
			Sequence: t.Sequence,
		})
	}

	return &dto.CategorizedTasksResponse{Categories: categories}, nil
}

// ────────────────────── ImportExcel ──────────────────────
//
// 表头要求（支持灵活列序）：CATEGORY / SEQUENCE / TASK

func (s *taskService) ImportExcel(ctx context.Context, reader io.Reader) (*dto.ImportResponse, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析 Excel 文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrImportNoData
	}
	if len(rows)-1 > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	colIdx := taskHeaderIndex(rows[0])
	if colIdx["category"] < 0 || colIdx["sequence"] < 0 || colIdx["task"] < 0 {
		return nil, ErrImportBadHeader
	}

	resp := &dto.ImportResponse{Total: len(rows) - 1}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		cell := func(key string) string {
			if idx := colIdx[key]; idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		category := cell("category")
		seqStr := cell("sequence")
		task := cell("task")
		if category == "" && seqStr == "" && task == "" {
			resp.Total--
			continue // 跳过全空行
		}

		sequence, err := strconv.Atoi(seqStr)
		if err != nil || category == "" || task == "" {
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("第 %d 行: 字段无效", i+1))
			continue
		}

		def := &model.TaskDefinition{Task: task, Category: category, Sequence: sequence}
		if err := s.repo.Task.UpsertByCategorySequence(ctx, def); err != nil {
			s.logger.Error("导入检查项失败", zap.Int("row", i+1), zap.Error(err))
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("第 %d 行: 写入失败", i+1))
			continue
		}
		resp.Imported++
	}

	return resp, nil
}

// taskHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func taskHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"category": -1,
		"sequence": -1,
		"task":     -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "category":
			idx["category"] = i
		case "sequence":
			idx["sequence"] = i
		case "task":
			idx["task"] = i
		}
	}
	return idx
}
