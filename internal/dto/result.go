package dto

// ── 审核结果 DTO ──

// SubmitResultRequest 结果提交请求
// date/shift/username 仅提权路径（Supervisor/Root）需要；
// Auditor 提交时三者一律被忽略并强制为当前班次窗口
type SubmitResultRequest struct {
	Crew     string `json:"crew"`
	TaskID   string `json:"task_id"`
	Result   string `json:"result"`
	Date     string `json:"date"`     // "2006-01-02"
	Shift    string `json:"shift"`    // morning | evening | night
	Username string `json:"username"` // 计划归属人
}

// ResultTaskResponse 结果明细响应
type ResultTaskResponse struct {
	TaskID    string `json:"task_id"`
	Result    string `json:"result"`
	Username  string `json:"username"`
	UpdatedAt string `json:"updated_at"`
}

// ResultRecordResponse 结果记录响应
type ResultRecordResponse struct {
	ResultID  string               `json:"result_id"`
	Crew      string               `json:"crew"`
	Shift     string               `json:"shift"`
	Date      string               `json:"date"`
	Week      string               `json:"week"`
	Project   string               `json:"project"`
	Family    string               `json:"family"`
	Line      string               `json:"line"`
	Tasks     []ResultTaskResponse `json:"tasks"`
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}

// ResultListRequest 结果列表查询参数
type ResultListRequest struct {
	Week      string `form:"week"`
	Date      string `form:"date"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Shift     string `form:"shift"`
	Project   string `form:"project"`
	Family    string `form:"family"`
	Line      string `form:"line"`
	Crew      string `form:"crew"`
	Username  string `form:"username"`
}
