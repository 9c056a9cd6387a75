package dto

// ── 审计日志 DTO ──

// AuditLogListRequest 审计日志列表查询参数
type AuditLogListRequest struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=50"`
}

// AuditLogResponse 审计日志响应
type AuditLogResponse struct {
	LogID     string `json:"log_id"`
	Username  string `json:"username"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
	CreatedAt string `json:"created_at"`
}

// AuditLogListResponse 审计日志分页响应
type AuditLogListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Logs     []AuditLogResponse `json:"logs"`
}
