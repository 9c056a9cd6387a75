package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"lpatrack/backend/internal/dto"
	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
	"lpatrack/backend/internal/shiftclock"
	pkgerrors "lpatrack/backend/pkg/errors"
)

// ── 审核计划业务错误 ──

var (
	ErrNoPlanFound  = errors.New("未找到对应的审核计划")
	ErrInvalidShift = errors.New("无效的班次，必须为 morning、evening 或 night")
	ErrInvalidDate  = errors.New("无效的日期格式，必须为 YYYY-MM-DD")
)

// PlanService 审核计划业务接口
type PlanService interface {
	// SavePlanning 保存一份计划的产线任务清单。
	// 任务清单为空的产线条目被删除而非存为空清单；
	// 计划因此不再含任何条目时整体删除
	SavePlanning(ctx context.Context, req *dto.SavePlanningRequest) (*dto.SavePlanningResponse, error)
	// GetPlanWithResults 计划视图：计划任务与已提交结果的只读合并。
	// Auditor 一律被强制为本人 + 当前班次窗口；
	// 提权角色需显式给出 week/shift/date，username 可选（缺省时返回全部计划）
	GetPlanWithResults(ctx context.Context, actor dto.Actor, req *dto.PlanViewRequest) ([]dto.PlanViewResponse, error)
}

type planService struct {
	repo         *repository.Repository
	clock        *shiftclock.Resolver
	storeTimeout time.Duration
	logger       *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(repo *repository.Repository, clock *shiftclock.Resolver, storeTimeout time.Duration, logger *zap.Logger) PlanService {
	return &planService{repo: repo, clock: clock, storeTimeout: storeTimeout, logger: logger}
}

// ────────────────────── SavePlanning ──────────────────────

func (s *planService) SavePlanning(ctx context.Context, req *dto.SavePlanningRequest) (*dto.SavePlanningResponse, error) {
	if !shiftclock.ValidShift(req.Shift) {
		return nil, ErrInvalidShift
	}

	resp := &dto.SavePlanningResponse{
		Username: req.Username,
		Week:     req.Week,
		Shift:    req.Shift,
		Plans:    make([]dto.PlanCrewPayload, 0, len(req.Plans)),
	}

	for i, entry := range req.Plans {
		callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		if len(entry.Tasks) == 0 {
			// 空任务清单即「取消该产线的计划」：删除条目而非存空清单
			err := s.repo.Plan.DeleteCrew(callCtx, req.Username, req.Week, req.Shift, entry.Crew)
			cancel()
			if err != nil {
				s.logger.Error("删除计划产线条目失败",
					zap.String("username", req.Username),
					zap.String("crew", entry.Crew),
					zap.Error(err))
				return nil, storeError(err)
			}
			continue
		}

		err := s.repo.Plan.UpsertCrew(callCtx, req.Username, req.Week, req.Shift, entry.Crew, entry.Tasks, i)
		cancel()
		if err != nil {
			s.logger.Error("写入计划产线条目失败",
				zap.String("username", req.Username),
				zap.String("crew", entry.Crew),
				zap.Error(err))
			return nil, storeError(err)
		}
		resp.Plans = append(resp.Plans, entry)
	}

	return resp, nil
}

// ────────────────────── GetPlanWithResults ──────────────────────

func (s *planService) GetPlanWithResults(ctx context.Context, actor dto.Actor, req *dto.PlanViewRequest) ([]dto.PlanViewResponse, error) {
	var (
		username string
		week     string
		shift    string
		date     time.Time
	)

	if actor.Role == model.RoleAuditor {
		// 审核员只能看自己在当前班次窗口的计划，客户端给的字段一律忽略
		win := s.clock.Current()
		username, week, shift, date = actor.Username, win.Week, win.Shift, win.Date
	} else {
		var missing []string
		if req.Week == "" {
			missing = append(missing, "week")
		}
		if req.Shift == "" {
			missing = append(missing, "shift")
		}
		if req.Date == "" {
			missing = append(missing, "date")
		}
		if err := dto.NewValidationError(missing); err != nil {
			return nil, err
		}
		if !shiftclock.ValidShift(req.Shift) {
			return nil, ErrInvalidShift
		}
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		username, week, shift, date = req.Username, req.Week, req.Shift, shiftclock.Date(parsed)
	}

	plans, err := s.findPlans(ctx, username, week, shift)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrNoPlanFound
	}

	views := make([]dto.PlanViewResponse, 0, len(plans))
	for i := range plans {
		view, err := s.mergePlan(ctx, &plans[i], date, req.Crew)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// ── 内部辅助方法 ──

func (s *planService) findPlans(ctx context.Context, username, week, shift string) ([]model.PlanAssignment, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if username != "" {
		plan, err := s.repo.Plan.FindPlan(callCtx, username, week, shift)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoPlanFound
			}
			s.logger.Error("查询计划失败", zap.String("username", username), zap.Error(err))
			return nil, storeError(err)
		}
		return []model.PlanAssignment{*plan}, nil
	}

	plans, err := s.repo.Plan.ListPlans(callCtx, repository.PlanFilter{Week: week, Shift: shift})
	if err != nil {
		s.logger.Error("列出计划失败", zap.String("week", week), zap.Error(err))
		return nil, storeError(err)
	}
	return plans, nil
}

// mergePlan 将一份计划与该班次日期已提交的结果合并为只读视图。
// 未提交过的任务结果呈现为 "NA"；合并绝不回写结果存储
func (s *planService) mergePlan(ctx context.Context, plan *model.PlanAssignment, date time.Time, crewFilter string) (*dto.PlanViewResponse, error) {
	taskIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, crew := range plan.Crews {
		for _, id := range crew.Tasks {
			if !seen[id] {
				seen[id] = true
				taskIDs = append(taskIDs, id)
			}
		}
	}

	catalog := make(map[string]model.TaskDefinition)
	if len(taskIDs) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defs, err := s.repo.Task.ListByIDs(callCtx, taskIDs)
		cancel()
		if err != nil {
			s.logger.Error("查询检查项目录失败", zap.Error(err))
			return nil, storeError(err)
		}
		for _, def := range defs {
			catalog[def.TaskID] = def
		}
	}

	view := &dto.PlanViewResponse{
		Username: plan.Username,
		Week:     plan.Week,
		Shift:    plan.Shift,
		Date:     date.Format("2006-01-02"),
		Crews:    make([]dto.PlanCrewView, 0, len(plan.Crews)),
	}

	for _, crew := range plan.Crews {
		if crewFilter != "" && crew.Crew != crewFilter {
			continue
		}

		results, err := s.crewResults(ctx, crew.Crew, plan.Shift, date)
		if err != nil {
			return nil, err
		}

		crewView := dto.PlanCrewView{
			Crew:  crew.Crew,
			Tasks: make([]dto.PlanTaskView, 0, len(crew.Tasks)),
		}
		for _, id := range crew.Tasks {
			def, ok := catalog[id]
			if !ok {
				// 目录中已不存在的检查项不进入视图
				continue
			}
			result := results[id]
			if result == "" {
				result = model.ResultNA
			}
			crewView.Tasks = append(crewView.Tasks, dto.PlanTaskView{
				TaskID:   def.TaskID,
				Task:     def.Task,
				Category: def.Category,
				Sequence: def.Sequence,
				Result:   result,
			})
		}
		sort.Slice(crewView.Tasks, func(i, j int) bool {
			a, b := crewView.Tasks[i], crewView.Tasks[j]
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return a.Sequence < b.Sequence
		})
		view.Crews = append(view.Crews, crewView)
	}

	return view, nil
}

// crewResults 查询一条产线在 (shift, date) 的已提交结果，返回 task_id -> result
func (s *planService) crewResults(ctx context.Context, crew, shift string, date time.Time) (map[string]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	rec, err := s.repo.Result.FindResult(callCtx, repository.ResultKey{Crew: crew, Shift: shift, Date: date})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]string{}, nil
		}
		s.logger.Error("查询结果记录失败", zap.String("crew", crew), zap.Error(err))
		return nil, storeError(err)
	}

	results := make(map[string]string, len(rec.Tasks))
	for _, task := range rec.Tasks {
		results[task.TaskID] = task.Result
	}
	return results, nil
}

// storeError 将底层存储故障归一化：超时与其他不可用故障分别归一，
// 调用方须先行处理 gorm.ErrRecordNotFound 等业务性错误
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.ErrStoreTimeout
	}
	return fmt.Errorf("%w: %v", pkgerrors.ErrStoreUnavailable, err)
}
