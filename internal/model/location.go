package model

// Location 产线位置表 — 对应 locations
// crew 全局唯一，位于 project/family/line 层级之下；
// 结果创建时从此处冗余 project/family/line 快照
type Location struct {
	LocationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Crew       string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"crew"`
	Project    string `gorm:"type:varchar(100);not null;default:''"          json:"project"`
	Family     string `gorm:"type:varchar(100);not null;default:''"          json:"family"`
	Line       string `gorm:"type:varchar(100);not null;default:''"          json:"line"`
	Headcount  int    `gorm:"not null;default:0"                             json:"headcount"`
	BaseModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }
