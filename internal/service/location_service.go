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
	"gorm.io/gorm"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
)

// ── 产线位置业务错误 ──

var (
	ErrLocationExists  = errors.New("该产线已登记位置")
	ErrLocationMissing = errors.New("位置不存在")
)

// LocationService 产线位置业务接口
type LocationService interface {
	Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error)
	GetByCrew(ctx context.Context, crew string) (*dto.LocationResponse, error)
	List(ctx context.Context, req *dto.LocationListRequest) ([]dto.LocationResponse, error)
	Update(ctx context.Context, crew string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	Delete(ctx context.Context, crew string) error
	// ImportExcel 批量导入位置，按 crew 幂等更新
	ImportExcel(ctx context.Context, reader io.Reader) (*dto.ImportResponse, error)
}

type locationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(repo *repository.Repository, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *locationService) Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if _, err := s.repo.Location.GetByCrew(ctx, req.Crew); err == nil {
		return nil, ErrLocationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询位置失败", zap.String("crew", req.Crew), zap.Error(err))
		return nil, err
	}

	loc := &model.Location{
		Crew:      req.Crew,
		Project:   req.Project,
		Family:    req.Family,
		Line:      req.Line,
		Headcount: req.Headcount,
	}
	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("创建位置失败", zap.Error(err))
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// ────────────────────── GetByCrew ──────────────────────

func (s *locationService) GetByCrew(ctx context.Context, crew string) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByCrew(ctx, crew)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationMissing
		}
		s.logger.Error("查询位置失败", zap.String("crew", crew), zap.Error(err))
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// ────────────────────── List ──────────────────────

func (s *locationService) List(ctx context.Context, req *dto.LocationListRequest) ([]dto.LocationResponse, error) {
	locations, err := s.repo.Location.List(ctx, repository.LocationFilter{
		Project: req.Project,
		Family:  req.Family,
		Line:    req.Line,
		Crew:    req.Crew,
	})
	if err != nil {
		s.logger.Error("列出位置失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *toLocationResponse(&locations[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *locationService) Update(ctx context.Context, crew string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByCrew(ctx, crew)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationMissing
		}
		s.logger.Error("查询位置失败", zap.String("crew", crew), zap.Error(err))
		return nil, err
	}

	if req.Project != nil {
		loc.Project = *req.Project
	}
	if req.Family != nil {
		loc.Family = *req.Family
	}
	if req.Line != nil {
		loc.Line = *req.Line
	}
	if req.Headcount != nil {
		loc.Headcount = *req.Headcount
	}

	if err := s.repo.Location.Update(ctx, loc); err != nil {
		s.logger.Error("更新位置失败", zap.String("crew", crew), zap.Error(err))
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// ────────────────────── Delete ──────────────────────

func (s *locationService) Delete(ctx context.Context, crew string) error {
	if _, err := s.repo.Location.GetByCrew(ctx, crew); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocationMissing
		}
		s.logger.Error("查询位置失败", zap.String("crew", crew), zap.Error(err))
		return err
	}
	return s.repo.Location.Delete(ctx, crew)
}

// ────────────────────── ImportExcel ──────────────────────
//
// 表头要求（支持灵活列序）：PROJECT / FAMILY / LINE / CREW / HEADCOUNT（可选）

func (s *locationService) ImportExcel(ctx context.Context, reader io.Reader) (*dto.ImportResponse, error) {
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

	colIdx := locationHeaderIndex(rows[0])
	if colIdx["crew"] < 0 {
		return nil, ErrImportBadHeader
	}

	resp := &dto.ImportResponse{Total: len(rows) - 1}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		cell := func(key string) string {
			if idx := colIdx[key]; idx >= 0 && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		crew := cell("crew")
		if crew == "" {
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("第 %d 行: crew 为空", i+1))
			continue
		}

		headcount := 0
		if hc := cell("headcount"); hc != "" {
			headcount, _ = strconv.Atoi(hc)
		}

		loc := &model.Location{
			Crew:      crew,
			Project:   cell("project"),
			Family:    cell("family"),
			Line:      cell("line"),
			Headcount: headcount,
		}
		if err := s.repo.Location.UpsertByCrew(ctx, loc); err != nil {
			s.logger.Error("导入位置失败", zap.Int("row", i+1), zap.Error(err))
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("第 %d 行: 写入失败", i+1))
			continue
		}
		resp.Imported++
	}

	return resp, nil
}

// locationHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func locationHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"project":   -1,
		"family":    -1,
		"line":      -1,
		"crew":      -1,
		"headcount": -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok {
			idx[key] = i
		}
	}
	return idx
}

// ── 内部辅助方法 ──

func toLocationResponse(loc *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        loc.LocationID,
		Crew:      loc.Crew,
		Project:   loc.Project,
		Family:    loc.Family,
		Line:      loc.Line,
		Headcount: loc.Headcount,
		CreatedAt: loc.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: loc.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
