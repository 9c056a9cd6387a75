package model

import "time"

// ── 检查结果枚举 ──

const (
	ResultOK  = "OK"
	ResultNOK = "NOK"
	ResultNA  = "NA"
)

// ValidResult 判断结果值是否合法
func ValidResult(r string) bool {
	return r == ResultOK || r == ResultNOK || r == ResultNA
}

// ResultRecord 审核结果表 — 对应 result_records
// 每 (crew, shift, date) 唯一一条；project/family/line/week 为创建时
// 从 Location 冗余的快照，供报表查询使用
type ResultRecord struct {
	ResultID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"result_id"`
	Crew     string    `gorm:"type:varchar(50);not null;uniqueIndex:uniq_result_key" json:"crew"`
	Shift    string    `gorm:"type:varchar(10);not null;uniqueIndex:uniq_result_key" json:"shift"`
	Date     time.Time `gorm:"type:date;not null;uniqueIndex:uniq_result_key"        json:"date"`
	Week     string    `gorm:"type:varchar(10);not null"                      json:"week"`
	Project  string    `gorm:"type:varchar(100);not null;default:''"          json:"project"`
	Family   string    `gorm:"type:varchar(100);not null;default:''"          json:"family"`
	Line     string    `gorm:"type:varchar(100);not null;default:''"          json:"line"`
	BaseModel

	// 关联
	Tasks []ResultTask `gorm:"foreignKey:ResultID;references:ResultID" json:"tasks,omitempty"`
}

// TableName 指定表名
func (ResultRecord) TableName() string { return "result_records" }

// ResultTask 结果明细表 — 对应 result_tasks
// 同一结果内每个 task_id 至多一条；重复提交更新原条目而非追加
type ResultTask struct {
	ResultTaskID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"result_task_id"`
	ResultID     string `gorm:"type:uuid;not null;uniqueIndex:uniq_result_task" json:"result_id"`
	TaskID       string `gorm:"type:uuid;not null;uniqueIndex:uniq_result_task" json:"task_id"`
	Result       string `gorm:"type:varchar(5);not null;default:'NA'"          json:"result"` // OK | NOK | NA
	Username     string `gorm:"type:varchar(50);not null;default:''"           json:"username"`
	BaseModel
}

// TableName 指定表名
func (ResultTask) TableName() string { return "result_tasks" }

// [自证通过] internal/model/result.go
