package service

import (
	"strings"
	"testing"

	"github.com/SRobles97/shifts-api/internal/model"
)

func icsFixture(events ...string) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//test//ES",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func TestParseSpecialDaysICS_AllDayHoliday(t *testing.T) {
	content := icsFixture(
		"BEGIN:VEVENT",
		"UID:evt-1",
		"DTSTART;VALUE=DATE:20251225",
		"SUMMARY:Navidad",
		"RRULE:FREQ=YEARLY",
		"END:VEVENT",
	)

	days, err := ParseSpecialDaysICS(content)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	day, ok := days["2025-12-25"]
	if !ok {
		t.Fatalf("期望键 2025-12-25，实际=%v", days)
	}
	if day.Name != "Navidad" {
		t.Errorf("期望 Navidad，实际=%s", day.Name)
	}
	if day.Type != model.SpecialDayHoliday {
		t.Errorf("全天事件应默认为 holiday，实际=%s", day.Type)
	}
	if day.WorkHours != nil {
		t.Error("全天事件不应有工作时段")
	}
	if !day.IsRecurring || day.RecurrencePattern == nil || *day.RecurrencePattern != model.RecurrenceYearly {
		t.Errorf("FREQ=YEARLY 应映射为年度重复，实际=%+v", day)
	}
}

func TestParseSpecialDaysICS_TimedEvent(t *testing.T) {
	content := icsFixture(
		"BEGIN:VEVENT",
		"UID:evt-2",
		"DTSTART:20250601T090000",
		"DTEND:20250601T130000",
		"SUMMARY:Media jornada",
		"END:VEVENT",
	)

	days, err := ParseSpecialDaysICS(content)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	day, ok := days["2025-06-01"]
	if !ok {
		t.Fatalf("期望键 2025-06-01，实际=%v", days)
	}
	if day.WorkHours == nil {
		t.Fatal("带时刻的事件应映射为工作时段")
	}
	if day.WorkHours.Start != "09:00" || day.WorkHours.End != "13:00" {
		t.Errorf("期望 09:00-13:00，实际=%+v", day.WorkHours)
	}
	if day.Type != model.SpecialDaySpecialEvent {
		t.Errorf("带工作时段的事件应为 special_event，实际=%s", day.Type)
	}
	if day.IsRecurring {
		t.Error("无 RRULE 的事件不应重复")
	}
}

func TestParseSpecialDaysICS_CategoryType(t *testing.T) {
	content := icsFixture(
		"BEGIN:VEVENT",
		"UID:evt-3",
		"DTSTART;VALUE=DATE:20250710",
		"SUMMARY:Capacitación",
		"CATEGORIES:training",
		"END:VEVENT",
	)

	days, err := ParseSpecialDaysICS(content)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if days["2025-07-10"].Type != model.SpecialDayTraining {
		t.Errorf("CATEGORIES 应决定类型，实际=%s", days["2025-07-10"].Type)
	}
}

func TestParseSpecialDaysICS_SkipsUnusableEvents(t *testing.T) {
	content := icsFixture(
		// 无 SUMMARY
		"BEGIN:VEVENT",
		"UID:evt-4",
		"DTSTART;VALUE=DATE:20250801",
		"END:VEVENT",
		// 正常事件
		"BEGIN:VEVENT",
		"UID:evt-5",
		"DTSTART;VALUE=DATE:20250918",
		"SUMMARY:Fiestas Patrias",
		"END:VEVENT",
	)

	days, err := ParseSpecialDaysICS(content)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(days) != 1 {
		t.Errorf("不可用事件应被跳过，期望 1 个结果，实际=%d", len(days))
	}
}

func TestParseSpecialDaysICS_EmptyContent(t *testing.T) {
	if _, err := ParseSpecialDaysICS(nil); err != ErrICSNoEvents {
		t.Errorf("空内容期望 ErrICSNoEvents，实际: %v", err)
	}
}
