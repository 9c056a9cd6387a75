package errors

import "errors"

// ErrStoreTimeout 持久层调用超时：单次尝试失败，由客户端幂等重试
var ErrStoreTimeout = errors.New("存储层调用超时，请稍后重试")

// ErrStoreUnavailable 持久层不可用
var ErrStoreUnavailable = errors.New("存储层暂不可用，请稍后重试")
