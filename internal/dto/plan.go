package dto

// ── 审核计划 DTO ──

// PlanCrewPayload 计划中一条产线的任务清单
type PlanCrewPayload struct {
	Crew  string   `json:"crew"  binding:"required"`
	Tasks []string `json:"tasks"`
}

// SavePlanningRequest 保存计划请求（Supervisor/Root 提交）
// 任务清单为空的产线条目将被删除而非存为空清单
type SavePlanningRequest struct {
	Username string            `json:"username" binding:"required"`
	Week     string            `json:"week"     binding:"required"`
	Shift    string            `json:"shift"    binding:"required"`
	Plans    []PlanCrewPayload `json:"plans"    binding:"required"`
}

// SavePlanningResponse 保存计划响应：仅包含留存的条目
type SavePlanningResponse struct {
	Username string            `json:"username"`
	Week     string            `json:"week"`
	Shift    string            `json:"shift"`
	Plans    []PlanCrewPayload `json:"plans"`
}

// PlanViewRequest 计划视图查询参数
// Auditor 角色下 username/week/shift/date 一律被强制为本人+当前窗口
type PlanViewRequest struct {
	Username string `form:"username"`
	Week     string `form:"week"`
	Shift    string `form:"shift"`
	Date     string `form:"date"` // "2006-01-02"
	Crew     string `form:"crew"`
}

// PlanTaskView 计划任务与其最新记录结果的合并视图
type PlanTaskView struct {
	TaskID   string `json:"task_id"`
	Task     string `json:"task"`
	Category string `json:"category"`
	Sequence int    `json:"sequence"`
	Result   string `json:"result"` // 未提交过的任务为 "NA"
}

// PlanCrewView 一条产线的计划视图
type PlanCrewView struct {
	Crew  string         `json:"crew"`
	Tasks []PlanTaskView `json:"tasks"`
}

// PlanViewResponse 计划视图响应（只读合并，绝不回写）
type PlanViewResponse struct {
	Username string         `json:"username"`
	Week     string         `json:"week"`
	Shift    string         `json:"shift"`
	Date     string         `json:"date"`
	Crews    []PlanCrewView `json:"crews"`
}
