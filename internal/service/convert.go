package service

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/SRobles97/shifts-api/internal/dto"
	"github.com/SRobles97/shifts-api/internal/model"
)

// ── DTO → 领域模型 ──
//
// 所有入站数据一律经过模型构造函数，构造失败即整体拒绝。

func buildWeekSchedule(schema map[string]dto.DayScheduleSchema) (model.WeekSchedule, error) {
	days := make(map[string]model.DaySchedule, len(schema))
	for day, ds := range schema {
		wh, err := model.NewWorkHours(ds.WorkHours.Start, ds.WorkHours.End)
		if err != nil {
			return model.WeekSchedule{}, fmt.Errorf("%s: %w", day, err)
		}
		br, err := model.NewBreak(ds.BreakTime.Start, ds.BreakTime.DurationMinutes)
		if err != nil {
			return model.WeekSchedule{}, fmt.Errorf("%s: %w", day, err)
		}
		d, err := model.NewDaySchedule(wh, br)
		if err != nil {
			return model.WeekSchedule{}, fmt.Errorf("%s: %w", day, err)
		}
		days[day] = d
	}
	return model.NewWeekSchedule(days)
}

func buildExtraHours(schema map[string][]dto.ExtraHourSchema) (map[string][]model.ExtraHour, error) {
	if len(schema) == 0 {
		return nil, nil
	}
	extra := make(map[string][]model.ExtraHour, len(schema))
	for day, hours := range schema {
		list := make([]model.ExtraHour, 0, len(hours))
		for _, h := range hours {
			eh, err := model.NewExtraHour(h.Start, h.End)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", day, err)
			}
			list = append(list, eh)
		}
		extra[day] = list
	}
	return extra, nil
}

func buildSpecialDay(schema dto.SpecialDaySchema) (model.SpecialDay, error) {
	var wh *model.WorkHours
	if schema.WorkHours != nil {
		w, err := model.NewWorkHours(schema.WorkHours.Start, schema.WorkHours.End)
		if err != nil {
			return model.SpecialDay{}, err
		}
		wh = &w
	}
	var br *model.Break
	if schema.BreakTime != nil {
		b, err := model.NewBreak(schema.BreakTime.Start, schema.BreakTime.DurationMinutes)
		if err != nil {
			return model.SpecialDay{}, err
		}
		br = &b
	}
	var pattern *model.RecurrencePattern
	if schema.RecurrencePattern != nil {
		p := model.RecurrencePattern(*schema.RecurrencePattern)
		pattern = &p
	}
	return model.NewSpecialDay(
		schema.Name,
		model.SpecialDayType(schema.Type),
		wh, br,
		schema.IsRecurring,
		pattern,
	)
}

func buildSpecialDays(schema map[string]dto.SpecialDaySchema) (map[string]model.SpecialDay, error) {
	if len(schema) == 0 {
		return nil, nil
	}
	special := make(map[string]model.SpecialDay, len(schema))
	for date, sd := range schema {
		s, err := buildSpecialDay(sd)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", date, err)
		}
		special[date] = s
	}
	return special, nil
}

// buildEntity 从请求载荷构造完整聚合，任一环节失败即返回校验错误
func buildEntity(
	deviceID int64,
	schedule map[string]dto.DayScheduleSchema,
	extraHours map[string][]dto.ExtraHourSchema,
	specialDays map[string]dto.SpecialDaySchema,
	meta *dto.MetadataSchema,
) (*model.ScheduleEntity, error) {
	ws, err := buildWeekSchedule(schedule)
	if err != nil {
		return nil, err
	}
	extra, err := buildExtraHours(extraHours)
	if err != nil {
		return nil, err
	}
	special, err := buildSpecialDays(specialDays)
	if err != nil {
		return nil, err
	}

	version, source := "", ""
	if meta != nil {
		version, source = meta.Version, meta.Source
	}
	return model.NewScheduleEntity(deviceID, ws, extra, special, version, source)
}

// ── 领域模型 ↔ 存储行 ──
//
// 模型值对象的 JSON 标签即为 JSONB 列的存储格式，直接序列化。

func rowFromEntity(e *model.ScheduleEntity) (*model.DeviceSchedule, error) {
	dayJSON, err := json.Marshal(e.Schedule.DaySchedules)
	if err != nil {
		return nil, err
	}
	row := &model.DeviceSchedule{
		DeviceID:     e.DeviceID,
		DaySchedules: datatypes.JSON(dayJSON),
		Version:      e.Version,
		Source:       e.Source,
	}
	if len(e.ExtraHours) > 0 {
		b, err := json.Marshal(e.ExtraHours)
		if err != nil {
			return nil, err
		}
		row.ExtraHours = datatypes.JSON(b)
	}
	if len(e.SpecialDays) > 0 {
		b, err := json.Marshal(e.SpecialDays)
		if err != nil {
			return nil, err
		}
		row.SpecialDays = datatypes.JSON(b)
	}
	return row, nil
}

// entityFromRow 还原聚合
// 存储数据在写入时已通过构造校验，此处直接组装，不重复校验
func entityFromRow(row *model.DeviceSchedule) (*model.ScheduleEntity, error) {
	var days map[string]model.DaySchedule
	if err := json.Unmarshal(row.DaySchedules, &days); err != nil {
		return nil, fmt.Errorf("day_schedules 列损坏: %w", err)
	}

	entity := &model.ScheduleEntity{
		ID:        row.ID,
		DeviceID:  row.DeviceID,
		Schedule:  model.WeekSchedule{DaySchedules: days},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Version:   row.Version,
		Source:    row.Source,
	}
	if len(row.ExtraHours) > 0 {
		if err := json.Unmarshal(row.ExtraHours, &entity.ExtraHours); err != nil {
			return nil, fmt.Errorf("extra_hours 列损坏: %w", err)
		}
	}
	if len(row.SpecialDays) > 0 {
		if err := json.Unmarshal(row.SpecialDays, &entity.SpecialDays); err != nil {
			return nil, fmt.Errorf("special_days 列损坏: %w", err)
		}
	}
	return entity, nil
}

// ── 存储行 → 响应 DTO ──

func responseFromRow(row *model.DeviceSchedule) (*dto.ScheduleResponse, error) {
	resp := &dto.ScheduleResponse{
		ID:       row.ID,
		DeviceID: row.DeviceID,
		Metadata: dto.MetadataSchema{Version: row.Version, Source: row.Source},
	}
	if row.Device != nil {
		resp.DeviceName = row.Device.Name
	}
	if err := json.Unmarshal(row.DaySchedules, &resp.Schedule); err != nil {
		return nil, fmt.Errorf("day_schedules 列损坏: %w", err)
	}
	if len(row.ExtraHours) > 0 {
		if err := json.Unmarshal(row.ExtraHours, &resp.ExtraHours); err != nil {
			return nil, fmt.Errorf("extra_hours 列损坏: %w", err)
		}
	}
	if len(row.SpecialDays) > 0 {
		if err := json.Unmarshal(row.SpecialDays, &resp.SpecialDays); err != nil {
			return nil, fmt.Errorf("special_days 列损坏: %w", err)
		}
	}
	resp.CreatedAt = row.CreatedAt.UTC().Format(time.RFC3339)
	resp.UpdatedAt = row.UpdatedAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func dayScheduleSchema(d model.DaySchedule) dto.DayScheduleSchema {
	return dto.DayScheduleSchema{
		WorkHours: dto.WorkHoursSchema{Start: d.WorkHours.Start, End: d.WorkHours.End},
		BreakTime: dto.BreakSchema{Start: d.BreakTime.Start, DurationMinutes: d.BreakTime.DurationMinutes},
	}
}

// [自证通过] internal/service/convert.go
