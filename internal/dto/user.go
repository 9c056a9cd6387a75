package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Fullname  string `json:"fullname,omitempty"`
	Email     string `json:"email,omitempty"`
	IsActive  bool   `json:"is_active"`
	BelongTo  string `json:"belong_to,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role            string `form:"role"`
	BelongTo        string `form:"belong_to"`
	IncludeInactive bool   `form:"include_inactive"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Fullname *string `json:"fullname"  binding:"omitempty,max=100"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// AssignSupervisorRequest 指定审核员所属主管请求
type AssignSupervisorRequest struct {
	Supervisor string `json:"supervisor" binding:"required"`
}
