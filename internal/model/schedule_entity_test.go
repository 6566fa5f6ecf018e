package model

import (
	"testing"
	"time"
)

func baseWeekSchedule(t *testing.T, days ...string) WeekSchedule {
	t.Helper()
	if len(days) == 0 {
		days = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	}
	ds := mustDaySchedule(t, "08:00", "17:00", "12:00", 60)
	m := make(map[string]DaySchedule, len(days))
	for _, d := range days {
		m[d] = ds
	}
	ws, err := NewWeekSchedule(m)
	if err != nil {
		t.Fatalf("构造周排程失败: %v", err)
	}
	return ws
}

func mustEntity(t *testing.T, deviceID int64, ws WeekSchedule,
	extra map[string][]ExtraHour, special map[string]SpecialDay) *ScheduleEntity {
	t.Helper()
	e, err := NewScheduleEntity(deviceID, ws, extra, special, "1.0", "test")
	if err != nil {
		t.Fatalf("构造聚合失败: %v", err)
	}
	return e
}

func mustExtraHour(t *testing.T, start, end string) ExtraHour {
	t.Helper()
	eh, err := NewExtraHour(start, end)
	if err != nil {
		t.Fatalf("构造加班时段失败: %v", err)
	}
	return eh
}

// ── 构造不变量 ──

func TestNewScheduleEntity_DeviceIDMustBePositive(t *testing.T) {
	ws := baseWeekSchedule(t)
	if _, err := NewScheduleEntity(0, ws, nil, nil, "1.0", "test"); err == nil {
		t.Error("device_id=0 应被拒绝")
	} else {
		assertKind(t, err, ErrKindConsistency)
	}
	if _, err := NewScheduleEntity(1, ws, nil, nil, "1.0", "test"); err != nil {
		t.Errorf("device_id=1 应成功: %v", err)
	}
}

func TestNewScheduleEntity_ExtraHoursOnInactiveDay(t *testing.T) {
	ws := baseWeekSchedule(t, "monday")
	extra := map[string][]ExtraHour{
		"sunday": {mustExtraHour(t, "10:00", "12:00")},
	}
	_, err := NewScheduleEntity(1, ws, extra, nil, "1.0", "test")
	if err == nil {
		t.Fatal("非活跃日的加班时段应被拒绝")
	}
	assertKind(t, err, ErrKindConsistency)
}

func TestNewScheduleEntity_ExtraHoursUnknownDay(t *testing.T) {
	ws := baseWeekSchedule(t, "monday")
	extra := map[string][]ExtraHour{
		"someday": {mustExtraHour(t, "10:00", "12:00")},
	}
	_, err := NewScheduleEntity(1, ws, extra, nil, "1.0", "test")
	if err == nil {
		t.Fatal("非法星期名应被拒绝")
	}
	assertKind(t, err, ErrKindUnknownDay)
}

func TestNewScheduleEntity_ExtraHoursOverlap(t *testing.T) {
	ws := baseWeekSchedule(t, "monday")

	// 重叠：18:00-20:00 与 19:30-21:00
	extra := map[string][]ExtraHour{
		"monday": {
			mustExtraHour(t, "19:30", "21:00"),
			mustExtraHour(t, "18:00", "20:00"),
		},
	}
	_, err := NewScheduleEntity(1, ws, extra, nil, "1.0", "test")
	if err == nil {
		t.Fatal("重叠的加班时段应被拒绝")
	}
	assertKind(t, err, ErrKindOverlap)

	// 边界相接允许：18:00-20:00 与 20:00-21:00
	touching := map[string][]ExtraHour{
		"monday": {
			mustExtraHour(t, "20:00", "21:00"),
			mustExtraHour(t, "18:00", "20:00"),
		},
	}
	e, err := NewScheduleEntity(1, ws, touching, nil, "1.0", "test")
	if err != nil {
		t.Fatalf("边界相接的加班时段应成功: %v", err)
	}
	// 构造后应按开始时间排序
	hours := e.ExtraHours["monday"]
	if hours[0].Start != "18:00" || hours[1].Start != "20:00" {
		t.Errorf("加班时段应按开始时间排序: %v", hours)
	}
}

func TestNewScheduleEntity_SpecialDayKeyValidation(t *testing.T) {
	ws := baseWeekSchedule(t)
	sd, _ := NewSpecialDay("Feriado", SpecialDayHoliday, nil, nil, false, nil)

	for _, bad := range []string{"25-12-2025", "2025/12/25", "2025-13-01", "2025-02-30"} {
		_, err := NewScheduleEntity(1, ws, nil, map[string]SpecialDay{bad: sd}, "1.0", "test")
		if err == nil {
			t.Errorf("非法日期键 %q 应被拒绝", bad)
			continue
		}
		assertKind(t, err, ErrKindFormat)
	}

	if _, err := NewScheduleEntity(1, ws, nil,
		map[string]SpecialDay{"2025-12-25": sd}, "1.0", "test"); err != nil {
		t.Errorf("合法日期键应成功: %v", err)
	}
}

// ── 生效排程解析 ──

func TestEffectiveScheduleFor_RegularDay(t *testing.T) {
	e := mustEntity(t, 1, baseWeekSchedule(t), nil, nil)
	// 2025-01-13 是周一
	eff := e.EffectiveScheduleFor(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC))
	if eff == nil {
		t.Fatal("周一应有生效排程")
	}
	if eff.WorkHours.Start != "08:00" {
		t.Errorf("期望 08:00 开工，实际 %s", eff.WorkHours.Start)
	}
}

func TestEffectiveScheduleFor_InactiveDay(t *testing.T) {
	e := mustEntity(t, 1, baseWeekSchedule(t), nil, nil)
	// 2025-01-12 是周日，不在排程内
	if eff := e.EffectiveScheduleFor(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)); eff != nil {
		t.Errorf("非活跃日应返回 nil，实际 %+v", eff)
	}
}

func TestEffectiveScheduleFor_HolidaySuppressesRegular(t *testing.T) {
	sd, _ := NewSpecialDay("Navidad", SpecialDayHoliday, nil, nil, false, nil)
	e := mustEntity(t, 1, baseWeekSchedule(t), nil,
		map[string]SpecialDay{"2025-12-25": sd})

	// 2025-12-25 是周四，常规排程存在，但节假日停工优先
	if eff := e.EffectiveScheduleFor(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)); eff != nil {
		t.Errorf("节假日应返回 nil，实际 %+v", eff)
	}
}

func TestEffectiveScheduleFor_SpecialDayWithWork(t *testing.T) {
	wh, _ := NewWorkHours("08:00", "13:00")
	br := mustBreak(t, "11:00", 30)
	sd, _ := NewSpecialDay("Medio día", SpecialDaySpecialEvent, &wh, &br, false, nil)
	e := mustEntity(t, 1, baseWeekSchedule(t), nil,
		map[string]SpecialDay{"2025-01-13": sd})

	eff := e.EffectiveScheduleFor(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC))
	if eff == nil {
		t.Fatal("有工时的特殊日应返回排程")
	}
	if eff.WorkHours.End != "13:00" {
		t.Errorf("期望 13:00 收工，实际 %s", eff.WorkHours.End)
	}
}

func TestEffectiveScheduleFor_RecurringAcrossYears(t *testing.T) {
	sd, _ := NewSpecialDay("Navidad", SpecialDayHoliday, nil, nil, true, yearly())
	e := mustEntity(t, 1, baseWeekSchedule(t), nil,
		map[string]SpecialDay{"2024-12-25": sd})

	// 2025-12-25 与存储键 2024-12-25 跨年份月日匹配
	if eff := e.EffectiveScheduleFor(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)); eff != nil {
		t.Errorf("重复节假日应返回 nil，实际 %+v", eff)
	}
}

func TestEffectiveScheduleFor_ExactDateBeatsRecurringAndRegular(t *testing.T) {
	whExact, _ := NewWorkHours("09:00", "12:00")
	exact, _ := NewSpecialDay("Evento puntual", SpecialDaySpecialEvent, &whExact, nil, false, nil)
	recurring, _ := NewSpecialDay("Feriado anual", SpecialDayHoliday, nil, nil, true, yearly())

	// 同一目标日期：精确日期条目、月日匹配的重复条目、常规周一排程三者并存
	e := mustEntity(t, 1, baseWeekSchedule(t), nil, map[string]SpecialDay{
		"2025-01-13": exact,
		"2024-01-13": recurring,
	})

	eff := e.EffectiveScheduleFor(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC))
	if eff == nil {
		t.Fatal("精确日期特殊日应胜出并返回排程")
	}
	if eff.WorkHours.Start != "09:00" || eff.WorkHours.End != "12:00" {
		t.Errorf("应返回精确日期条目的工时，实际 %s-%s", eff.WorkHours.Start, eff.WorkHours.End)
	}
}

// ── 工时汇总 ──

func TestTotalWorkMinutesForDay_WithExtraHours(t *testing.T) {
	ws := baseWeekSchedule(t, "monday")
	extra := map[string][]ExtraHour{
		"monday": {mustExtraHour(t, "18:00", "20:00")},
	}
	e := mustEntity(t, 1, ws, extra, nil)

	if got := e.TotalWorkMinutesForDay("monday"); got != 600 {
		t.Errorf("期望 600（480 常规 + 120 加班），实际 %d", got)
	}
	if got := e.TotalWorkMinutesForDay("tuesday"); got != 0 {
		t.Errorf("非活跃日期望 0，实际 %d", got)
	}
}

func TestWeeklyWorkMinutes(t *testing.T) {
	ws := baseWeekSchedule(t, "monday", "tuesday")
	extra := map[string][]ExtraHour{
		"monday": {mustExtraHour(t, "18:00", "20:00")},
	}
	e := mustEntity(t, 1, ws, extra, nil)

	// 周一 480+120，周二 480
	if got := e.WeeklyWorkMinutes(); got != 1080 {
		t.Errorf("期望 1080，实际 %d", got)
	}
}

// ── 汇总与特殊日解耦 ──

func TestTotalWorkMinutesForDay_IgnoresSpecialDays(t *testing.T) {
	sd, _ := NewSpecialDay("Feriado", SpecialDayHoliday, nil, nil, false, nil)
	e := mustEntity(t, 1, baseWeekSchedule(t, "monday"), nil,
		map[string]SpecialDay{"2025-01-13": sd})

	// 按星期的汇总只看常规周排程，不做日期解析
	if got := e.TotalWorkMinutesForDay("monday"); got != 480 {
		t.Errorf("期望 480，实际 %d", got)
	}
}
