package dto

// ── 产线位置 DTO ──

// CreateLocationRequest 创建位置请求
type CreateLocationRequest struct {
	Crew      string `json:"crew"      binding:"required,max=50"`
	Project   string `json:"project"   binding:"omitempty,max=100"`
	Family    string `json:"family"    binding:"omitempty,max=100"`
	Line      string `json:"line"      binding:"omitempty,max=100"`
	Headcount int    `json:"headcount" binding:"omitempty,min=0"`
}

// UpdateLocationRequest 更新位置请求
type UpdateLocationRequest struct {
	Project   *string `json:"project"   binding:"omitempty,max=100"`
	Family    *string `json:"family"    binding:"omitempty,max=100"`
	Line      *string `json:"line"      binding:"omitempty,max=100"`
	Headcount *int    `json:"headcount" binding:"omitempty,min=0"`
}

// LocationListRequest 位置列表查询参数
type LocationListRequest struct {
	Project string `form:"project"`
	Family  string `form:"family"`
	Line    string `form:"line"`
	Crew    string `form:"crew"`
}

// LocationResponse 位置信息响应
type LocationResponse struct {
	ID        string `json:"id"`
	Crew      string `json:"crew"`
	Project   string `json:"project"`
	Family    string `json:"family"`
	Line      string `json:"line"`
	Headcount int    `json:"headcount"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
