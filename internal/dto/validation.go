package dto

import "strings"

// Actor 经认证中间件注入的请求者身份
// 核心无条件信任该身份
type Actor struct {
	Username string
	Role     string
	IsActive bool
}

// ValidationError 聚合校验错误：一次性列出全部缺失字段，
// 而非在第一个缺失处中断
type ValidationError struct {
	MissingFields []string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return "缺少必填字段: " + strings.Join(e.MissingFields, ", ")
}

// NewValidationError 构造聚合校验错误；无缺失字段时返回 nil
func NewValidationError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{MissingFields: missing}
}
