package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
	"lpatrack/backend/internal/shiftclock"
)

// ── 审核结果业务错误 ──

var (
	ErrPlanNotFound    = errors.New("该检查项不在对应班次的审核计划内")
	ErrResultNotFound  = errors.New("结果记录不存在")
	ErrInvalidResult   = errors.New("无效的结果值，必须为 OK、NOK 或 NA")
	ErrExportNoResults = errors.New("无符合条件的审核结果可导出")
	ErrExportGenerate  = errors.New("生成 Excel 文件失败")
)

// ResultService 审核结果业务接口
type ResultService interface {
	// SubmitResult 提交一条检查项结果。
	// Auditor 的班次窗口由服务端墙钟解析，客户端给的 date/shift/username 一律忽略；
	// Supervisor/Root 必须显式给出三者（补录路径）。
	// 提交前先对照计划做授权闸门，闸门不过则存储零变更
	SubmitResult(ctx context.Context, actor dto.Actor, req *dto.SubmitResultRequest) (*dto.ResultRecordResponse, error)
	// GetResult 查询 (crew, shift, date) 对应的结果记录
	GetResult(ctx context.Context, crew, shift, date string) (*dto.ResultRecordResponse, error)
	// ListResults 按条件列出结果记录
	ListResults(ctx context.Context, req *dto.ResultListRequest) ([]dto.ResultRecordResponse, error)
	// ExportResults 将符合条件的结果导出为 Excel，
	// 以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
	ExportResults(ctx context.Context, req *dto.ResultListRequest) (*bytes.Buffer, string, error)
}

type resultService struct {
	repo         *repository.Repository
	clock        *shiftclock.Resolver
	storeTimeout time.Duration
	logger       *zap.Logger
}

// NewResultService 创建 ResultService 实例
func NewResultService(repo *repository.Repository, clock *shiftclock.Resolver, storeTimeout time.Duration, logger *zap.Logger) ResultService {
	return &resultService{repo: repo, clock: clock, storeTimeout: storeTimeout, logger: logger}
}

// ────────────────────── SubmitResult ──────────────────────

func (s *resultService) SubmitResult(ctx context.Context, actor dto.Actor, req *dto.SubmitResultRequest) (*dto.ResultRecordResponse, error) {
	elevated := actor.Role != model.RoleAuditor

	// 1. 聚合校验：一次性列出全部缺失字段，而非逐个报错
	var missing []string
	if req.Crew == "" {
		missing = append(missing, "crew")
	}
	if req.TaskID == "" {
		missing = append(missing, "task_id")
	}
	if req.Result == "" {
		missing = append(missing, "result")
	}
	if elevated {
		if req.Username == "" {
			missing = append(missing, "username")
		}
		if req.Shift == "" {
			missing = append(missing, "shift")
		}
		if req.Date == "" {
			missing = append(missing, "date")
		}
	}
	if err := dto.NewValidationError(missing); err != nil {
		return nil, err
	}
	if !model.ValidResult(req.Result) {
		return nil, ErrInvalidResult
	}

	// 2. 解析班次窗口
	var (
		planUser string
		week     string
		shift    string
		date     time.Time
	)
	if elevated {
		if !shiftclock.ValidShift(req.Shift) {
			return nil, ErrInvalidShift
		}
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = shiftclock.Date(parsed)
		planUser, week, shift = req.Username, shiftclock.WeekLabel(date), req.Shift
	} else {
		win := s.clock.Current()
		planUser, week, shift, date = actor.Username, win.Week, win.Shift, win.Date
	}

	// 3. 授权闸门：该检查项必须出现在 (planUser, week, shift) 计划中
	//    对应产线的任务清单里；闸门不过则到此为止，存储零变更
	if err := s.checkPlanned(ctx, planUser, week, shift, req.Crew, req.TaskID); err != nil {
		return nil, err
	}

	// 4. 取产线当前位置，写入时冗余快照
	snap, err := s.locationSnapshot(ctx, req.Crew, week)
	if err != nil {
		return nil, err
	}

	// 5. 条件化原子写入
	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	rec, err := s.repo.Result.UpsertTaskResult(callCtx,
		repository.ResultKey{Crew: req.Crew, Shift: shift, Date: date},
		req.TaskID, req.Result, planUser, snap)
	if err != nil {
		s.logger.Error("写入结果失败",
			zap.String("crew", req.Crew),
			zap.String("task_id", req.TaskID),
			zap.Error(err))
		return nil, storeError(err)
	}

	return toResultResponse(rec), nil
}

// ────────────────────── GetResult ──────────────────────

func (s *resultService) GetResult(ctx context.Context, crew, shift, date string) (*dto.ResultRecordResponse, error) {
	var missing []string
	if crew == "" {
		missing = append(missing, "crew")
	}
	if shift == "" {
		missing = append(missing, "shift")
	}
	if date == "" {
		missing = append(missing, "date")
	}
	if err := dto.NewValidationError(missing); err != nil {
		return nil, err
	}
	if !shiftclock.ValidShift(shift) {
		return nil, ErrInvalidShift
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	rec, err := s.repo.Result.FindResult(callCtx, repository.ResultKey{
		Crew:  crew,
		Shift: shift,
		Date:  shiftclock.Date(parsed),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		s.logger.Error("查询结果失败", zap.String("crew", crew), zap.Error(err))
		return nil, storeError(err)
	}
	return toResultResponse(rec), nil
}

// ────────────────────── ListResults ──────────────────────

func (s *resultService) ListResults(ctx context.Context, req *dto.ResultListRequest) ([]dto.ResultRecordResponse, error) {
	filter, err := buildResultFilter(req)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	records, err := s.repo.Result.ListResults(callCtx, *filter)
	if err != nil {
		s.logger.Error("列出结果失败", zap.Error(err))
		return nil, storeError(err)
	}

	result := make([]dto.ResultRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *toResultResponse(&records[i]))
	}
	return result, nil
}

// ────────────────────── ExportResults ──────────────────────
//
// 输出格式：
//   - 单 Sheet "审核结果"，一行一条检查项明细
//   - 列：WEEK | DATE | SHIFT | PROJECT | FAMILY | LINE | CREW | TASK | RESULT | AUDITOR
//   - 检查项名称从目录批量回查，目录中已删除的项以 task_id 原样呈现

func (s *resultService) ExportResults(ctx context.Context, req *dto.ResultListRequest) (*bytes.Buffer, string, error) {
	filter, err := buildResultFilter(req)
	if err != nil {
		return nil, "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	records, err := s.repo.Result.ListResults(callCtx, *filter)
	cancel()
	if err != nil {
		s.logger.Error("查询导出数据失败", zap.Error(err))
		return nil, "", storeError(err)
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoResults
	}

	// 批量回查检查项名称
	idSet := make(map[string]bool)
	var taskIDs []string
	for i := range records {
		for _, task := range records[i].Tasks {
			if !idSet[task.TaskID] {
				idSet[task.TaskID] = true
				taskIDs = append(taskIDs, task.TaskID)
			}
		}
	}
	catalog := make(map[string]string)
	if len(taskIDs) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defs, err := s.repo.Task.ListByIDs(callCtx, taskIDs)
		cancel()
		if err != nil {
			s.logger.Error("查询检查项目录失败", zap.Error(err))
			return nil, "", storeError(err)
		}
		for _, def := range defs {
			catalog[def.TaskID] = def.Task
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "审核结果"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"WEEK", "DATE", "SHIFT", "PROJECT", "FAMILY", "LINE", "CREW", "TASK", "RESULT", "AUDITOR"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "G", 16)
	f.SetColWidth(sheetName, "H", "H", 50)
	f.SetColWidth(sheetName, "I", "J", 12)

	row := 2
	for i := range records {
		rec := &records[i]
		for _, task := range rec.Tasks {
			taskName := catalog[task.TaskID]
			if taskName == "" {
				taskName = task.TaskID
			}
			values := []interface{}{
				rec.Week,
				rec.Date.Format("2006-01-02"),
				rec.Shift,
				rec.Project,
				rec.Family,
				rec.Line,
				rec.Crew,
				taskName,
				task.Result,
				task.Username,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheetName, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerate
	}

	filename := fmt.Sprintf("results_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}

// ── 内部辅助方法 ──

// checkPlanned 校验 (username, week, shift) 计划中该产线的任务清单包含 taskID
func (s *resultService) checkPlanned(ctx context.Context, username, week, shift, crew, taskID string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	plan, err := s.repo.Plan.FindPlan(callCtx, username, week, shift)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		s.logger.Error("查询计划失败", zap.String("username", username), zap.Error(err))
		return storeError(err)
	}

	for _, entry := range plan.Crews {
		if entry.Crew == crew && entry.Tasks.Contains(taskID) {
			return nil
		}
	}
	return ErrPlanNotFound
}

// locationSnapshot 取产线当前位置的冗余快照
func (s *resultService) locationSnapshot(ctx context.Context, crew, week string) (repository.LocationSnapshot, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	loc, err := s.repo.Location.GetByCrew(callCtx, crew)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.LocationSnapshot{}, ErrLocationMissing
		}
		s.logger.Error("查询位置失败", zap.String("crew", crew), zap.Error(err))
		return repository.LocationSnapshot{}, storeError(err)
	}

	return repository.LocationSnapshot{
		Week:    week,
		Project: loc.Project,
		Family:  loc.Family,
		Line:    loc.Line,
	}, nil
}

func buildResultFilter(req *dto.ResultListRequest) (*repository.ResultFilter, error) {
	filter := &repository.ResultFilter{
		Week:     req.Week,
		Shift:    req.Shift,
		Project:  req.Project,
		Family:   req.Family,
		Line:     req.Line,
		Crew:     req.Crew,
		Username: req.Username,
	}
	if req.Shift != "" && !shiftclock.ValidShift(req.Shift) {
		return nil, ErrInvalidShift
	}

	parseDate := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, ErrInvalidDate
		}
		d := shiftclock.Date(t)
		return &d, nil
	}

	var err error
	if filter.Date, err = parseDate(req.Date); err != nil {
		return nil, err
	}
	if filter.StartDate, err = parseDate(req.StartDate); err != nil {
		return nil, err
	}
	if filter.EndDate, err = parseDate(req.EndDate); err != nil {
		return nil, err
	}
	return filter, nil
}

func toResultResponse(rec *model.ResultRecord) *dto.ResultRecordResponse {
	resp := &dto.ResultRecordResponse{
		ResultID:  rec.ResultID,
		Crew:      rec.Crew,
		Shift:     rec.Shift,
		Date:      rec.Date.Format("2006-01-02"),
		Week:      rec.Week,
		Project:   rec.Project,
		Family:    rec.Family,
		Line:      rec.Line,
		Tasks:     make([]dto.ResultTaskResponse, 0, len(rec.Tasks)),
		CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, task := range rec.Tasks {
		resp.Tasks = append(resp.Tasks, dto.ResultTaskResponse{
			TaskID:    task.TaskID,
			Result:    task.Result,
			Username:  task.Username,
			UpdatedAt: task.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return resp
}
