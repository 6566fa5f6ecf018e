package errors

import "errors"

// ErrNotFound 仓储层按设备更新/删除时未命中任何行
// Service 层据此映射到各自的业务 sentinel
var ErrNotFound = errors.New("记录不存在")
