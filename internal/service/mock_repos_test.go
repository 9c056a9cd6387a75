package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"lpatrack/backend/internal/model"
	"lpatrack/backend/internal/repository"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users map[string]*model.User // key: username
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.BelongTo != "" && u.BelongTo != filter.BelongTo {
			continue
		}
		if !filter.IncludeInactive && !u.IsActive {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, username, hashed string) error {
	if u, ok := m.users[username]; ok {
		u.Password = hashed
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, username string) error {
	delete(m.users, username)
	return nil
}

type mockTaskRepo struct {
	tasks map[string]*model.TaskDefinition // key: task_id
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.TaskDefinition)}
}

func (m *mockTaskRepo) GetByID(_ context.Context, taskID string) (*model.TaskDefinition, error) {
	if t, ok := m.tasks[taskID]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context, category string) ([]model.TaskDefinition, error) {
	var all []model.TaskDefinition
	for _, t := range m.tasks {
		if category != "" && t.Category != category {
			continue
		}
		all = append(all, *t)
	}
	sortTaskDefs(all)
	return all, nil
}

func (m *mockTaskRepo) ListByIDs(_ context.Context, taskIDs []string) ([]model.TaskDefinition, error) {
	var all []model.TaskDefinition
	for _, id := range taskIDs {
		if t, ok := m.tasks[id]; ok {
			all = append(all, *t)
		}
	}
	sortTaskDefs(all)
	return all, nil
}

func (m *mockTaskRepo) UpsertByCategorySequence(_ context.Context, task *model.TaskDefinition) error {
	for _, t := range m.tasks {
		if t.Category == task.Category && t.Sequence == task.Sequence {
			t.Task = task.Task
			return nil
		}
	}
	if task.TaskID == "" {
		task.TaskID = fmt.Sprintf("task-%s-%d", task.Category, task.Sequence)
	}
	m.tasks[task.TaskID] = task
	return nil
}

func sortTaskDefs(defs []model.TaskDefinition) {
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Category != defs[j].Category {
			return defs[i].Category < defs[j].Category
		}
		return defs[i].Sequence < defs[j].Sequence
	})
}

type mockLocationRepo struct {
	locations map[string]*model.Location // key: crew
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		loc.LocationID = "loc-" + loc.Crew
	}
	m.locations[loc.Crew] = loc
	return nil
}

func (m *mockLocationRepo) GetByCrew(_ context.Context, crew string) (*model.Location, error) {
	if l, ok := m.locations[crew]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, filter repository.LocationFilter) ([]model.Location, error) {
	var all []model.Location
	for _, l := range m.locations {
		if filter.Project != "" && l.Project != filter.Project {
			continue
		}
		if filter.Family != "" && l.Family != filter.Family {
			continue
		}
		if filter.Line != "" && l.Line != filter.Line {
			continue
		}
		if filter.Crew != "" && l.Crew != filter.Crew {
			continue
		}
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Crew < all[j].Crew })
	return all, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.Crew] = loc
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, crew string) error {
	delete(m.locations, crew)
	return nil
}

func (m *mockLocationRepo) UpsertByCrew(_ context.Context, loc *model.Location) error {
	if existing, ok := m.locations[loc.Crew]; ok {
		existing.Project = loc.Project
		existing.Family = loc.Family
		existing.Line = loc.Line
		existing.Headcount = loc.Headcount
		return nil
	}
	return m.Create(context.Background(), loc)
}

type mockPlanRepo struct {
	plans map[string]*model.PlanAssignment // key: "username|week|shift"
	err   error                            // 注入后所有方法一律返回该错误
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.PlanAssignment)}
}

func planKey(username, week, shift string) string {
	return username + "|" + week + "|" + shift
}

func (m *mockPlanRepo) FindPlan(_ context.Context, username, week, shift string) (*model.PlanAssignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	plan, ok := m.plans[planKey(username, week, shift)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *plan
	cp.Crews = append([]model.PlanCrew(nil), plan.Crews...)
	sort.Slice(cp.Crews, func(i, j int) bool { return cp.Crews[i].Position < cp.Crews[j].Position })
	return &cp, nil
}

func (m *mockPlanRepo) ListPlans(_ context.Context, filter repository.PlanFilter) ([]model.PlanAssignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var all []model.PlanAssignment
	for _, p := range m.plans {
		if filter.Username != "" && p.Username != filter.Username {
			continue
		}
		if filter.Week != "" && p.Week != filter.Week {
			continue
		}
		if filter.Shift != "" && p.Shift != filter.Shift {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

func (m *mockPlanRepo) UpsertCrew(_ context.Context, username, week, shift, crew string, tasks []string, position int) error {
	if m.err != nil {
		return m.err
	}
	key := planKey(username, week, shift)
	plan, ok := m.plans[key]
	if !ok {
		plan = &model.PlanAssignment{
			PlanID:   "plan-" + key,
			Username: username,
			Week:     week,
			Shift:    shift,
		}
		m.plans[key] = plan
	}
	for i := range plan.Crews {
		if plan.Crews[i].Crew == crew {
			plan.Crews[i].Tasks = model.StringArray(tasks)
			plan.Crews[i].Position = position
			return nil
		}
	}
	plan.Crews = append(plan.Crews, model.PlanCrew{
		PlanCrewID: fmt.Sprintf("pc-%s-%s", key, crew),
		PlanID:     plan.PlanID,
		Crew:       crew,
		Tasks:      model.StringArray(tasks),
		Position:   position,
	})
	return nil
}

func (m *mockPlanRepo) DeleteCrew(_ context.Context, username, week, shift, crew string) error {
	if m.err != nil {
		return m.err
	}
	key := planKey(username, week, shift)
	plan, ok := m.plans[key]
	if !ok {
		return nil
	}
	kept := plan.Crews[:0]
	for _, entry := range plan.Crews {
		if entry.Crew != crew {
			kept = append(kept, entry)
		}
	}
	plan.Crews = kept
	if len(plan.Crews) == 0 {
		delete(m.plans, key)
	}
	return nil
}

type mockResultRepo struct {
	records map[string]*model.ResultRecord // key: "crew|shift|date"
	writes  int                            // UpsertTaskResult 调用计数
	err     error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{records: make(map[string]*model.ResultRecord)}
}

func resultKey(key repository.ResultKey) string {
	return key.Crew + "|" + key.Shift + "|" + key.Date.Format("2006-01-02")
}

func (m *mockResultRepo) FindResult(_ context.Context, key repository.ResultKey) (*model.ResultRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[resultKey(key)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	cp.Tasks = append([]model.ResultTask(nil), rec.Tasks...)
	return &cp, nil
}

func (m *mockResultRepo) ListResults(_ context.Context, filter repository.ResultFilter) ([]model.ResultRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var all []model.ResultRecord
	for _, rec := range m.records {
		if filter.Week != "" && rec.Week != filter.Week {
			continue
		}
		if filter.Shift != "" && rec.Shift != filter.Shift {
			continue
		}
		if filter.Crew != "" && rec.Crew != filter.Crew {
			continue
		}
		if filter.Project != "" && rec.Project != filter.Project {
			continue
		}
		if filter.Date != nil && !rec.Date.Equal(*filter.Date) {
			continue
		}
		if filter.Username != "" {
			found := false
			for _, task := range rec.Tasks {
				if task.Username == filter.Username {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		all = append(all, *rec)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].Crew < all[j].Crew
	})
	return all, nil
}

func (m *mockResultRepo) UpsertTaskResult(_ context.Context, key repository.ResultKey, taskID, result, username string, snap repository.LocationSnapshot) (*model.ResultRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.writes++

	k := resultKey(key)
	rec, ok := m.records[k]
	if !ok {
		rec = &model.ResultRecord{
			ResultID: "result-" + k,
			Crew:     key.Crew,
			Shift:    key.Shift,
			Date:     key.Date,
		}
		m.records[k] = rec
	}
	rec.Week = snap.Week
	rec.Project = snap.Project
	rec.Family = snap.Family
	rec.Line = snap.Line
	rec.UpdatedAt = time.Now()

	for i := range rec.Tasks {
		if rec.Tasks[i].TaskID == taskID {
			rec.Tasks[i].Result = result
			rec.Tasks[i].Username = username
			return m.FindResult(context.Background(), key)
		}
	}
	rec.Tasks = append(rec.Tasks, model.ResultTask{
		ResultTaskID: fmt.Sprintf("rt-%s-%s", k, taskID),
		ResultID:     rec.ResultID,
		TaskID:       taskID,
		Result:       result,
		Username:     username,
	})
	return m.FindResult(context.Background(), key)
}

type mockAuditLogRepo struct {
	logs []model.AuditLog
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockAuditLogRepo) List(_ context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	total := int64(len(m.logs))
	if offset >= len(m.logs) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.logs) {
		end = len(m.logs)
	}
	return m.logs[offset:end], total, nil
}

// newMockRepository 组装全 mock 的 Repository 聚合
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:     newMockUserRepo(),
		Task:     newMockTaskRepo(),
		Location: newMockLocationRepo(),
		Plan:     newMockPlanRepo(),
		Result:   newMockResultRepo(),
		AuditLog: newMockAuditLogRepo(),
	}
}
