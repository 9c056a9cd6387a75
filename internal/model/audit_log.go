package model

import "time"

// AuditLog 请求审计日志表 — 对应 audit_logs（纯追加日志）
type AuditLog struct {
	LogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	Username  string    `gorm:"type:varchar(50);not null;default:''"           json:"username"`
	Method    string    `gorm:"type:varchar(10);not null"                      json:"method"`
	Path      string    `gorm:"type:varchar(200);not null"                     json:"path"`
	Status    int       `gorm:"not null"                                       json:"status"`
	Message   string    `gorm:"type:varchar(500);not null;default:''"          json:"message"`
	LatencyMs int64     `gorm:"not null;default:0"                             json:"latency_ms"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
