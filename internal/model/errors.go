package model

import (
	"errors"
	"fmt"
)

// ErrorKind 构造期校验错误的分类
// Handler 层据此映射 HTTP 状态码：所有校验类错误 → 400
type ErrorKind string

const (
	ErrKindFormat      ErrorKind = "format"      // 时间/日期字符串格式错误
	ErrKindOrder       ErrorKind = "order"       // 区间结束不晚于开始
	ErrKindRange       ErrorKind = "range"       // 数值超出允许范围
	ErrKindContainment ErrorKind = "containment" // 休息时段不在工作时段内
	ErrKindOverlap     ErrorKind = "overlap"     // 同一天的加班时段相互重叠
	ErrKindUnknownDay  ErrorKind = "unknown_day" // 非法的星期名
	ErrKindConsistency ErrorKind = "consistency" // 跨字段一致性约束被破坏
)

// ValidationError 构造期校验错误
// 所有不变量在对象构造时一次性校验，校验失败对象即不存在，
// 不提供"先构造后校验"的路径。
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(kind ErrorKind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError 判断是否为构造期校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// KindOf 提取校验错误分类；非校验错误返回空串
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
