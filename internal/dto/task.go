package dto

// ── 检查项目录 DTO ──

// TaskResponse 检查项响应
type TaskResponse struct {
	TaskID   string `json:"task_id"`
	Task     string `json:"task"`
	Category string `json:"category"`
	Sequence int    `json:"sequence"`
}

// TaskListRequest 检查项列表查询参数
type TaskListRequest struct {
	Category string `form:"category"`
}

// CategorizedTasksResponse 按类别分组的检查项清单
// 类别内按 sequence 升序
type CategorizedTasksResponse struct {
	Categories map[string][]TaskResponse `json:"categories"`
}

// ImportResponse Excel 批量导入结果
type ImportResponse struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"` // 跳过行的原因描述
}
