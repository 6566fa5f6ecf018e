package dto

// ── 排班模块 DTO ──

// WorkHoursSchema 工作时段
type WorkHoursSchema struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// BreakSchema 休息时段
type BreakSchema struct {
	Start           string `json:"start" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required"`
}

// DayScheduleSchema 单日排班
type DayScheduleSchema struct {
	WorkHours WorkHoursSchema `json:"workHours" binding:"required"`
	BreakTime BreakSchema     `json:"break" binding:"required"`
}

// ExtraHourSchema 加班时段
type ExtraHourSchema struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// SpecialDaySchema 特殊日期
type SpecialDaySchema struct {
	Name              string           `json:"name" binding:"required"`
	Type              string           `json:"type" binding:"required"`
	WorkHours         *WorkHoursSchema `json:"workHours,omitempty"`
	BreakTime         *BreakSchema     `json:"break,omitempty"`
	IsRecurring       bool             `json:"isRecurring"`
	RecurrencePattern *string          `json:"recurrencePattern,omitempty"`
}

// MetadataSchema 排班元信息
type MetadataSchema struct {
	Version string `json:"version,omitempty"`
	Source  string `json:"source,omitempty"`
}

// ScheduleCreateRequest 创建/覆盖排班请求
// deviceId 与 deviceName 二选一，均缺失时由服务层拒绝
type ScheduleCreateRequest struct {
	DeviceID    *int64                       `json:"deviceId,omitempty"`
	DeviceName  *string                      `json:"deviceName,omitempty"`
	Schedule    map[string]DayScheduleSchema `json:"schedule" binding:"required"`
	ExtraHours  map[string][]ExtraHourSchema `json:"extraHours,omitempty"`
	SpecialDays map[string]SpecialDaySchema  `json:"specialDays,omitempty"`
	Metadata    *MetadataSchema              `json:"metadata,omitempty"`
}

// ScheduleUpdateRequest 整体更新排班请求
type ScheduleUpdateRequest struct {
	Schedule    map[string]DayScheduleSchema `json:"schedule" binding:"required"`
	ExtraHours  map[string][]ExtraHourSchema `json:"extraHours,omitempty"`
	SpecialDays map[string]SpecialDaySchema  `json:"specialDays,omitempty"`
	Metadata    *MetadataSchema              `json:"metadata,omitempty"`
}

// MetadataPatchSchema 元信息局部更新
type MetadataPatchSchema struct {
	Version *string `json:"version,omitempty"`
	Source  *string `json:"source,omitempty"`
}

// SchedulePatchRequest 局部更新排班请求
// 仅更新显式出现的字段，缺失字段保持原值
type SchedulePatchRequest struct {
	Schedule    map[string]DayScheduleSchema `json:"schedule,omitempty"`
	ExtraHours  map[string][]ExtraHourSchema `json:"extraHours,omitempty"`
	SpecialDays map[string]SpecialDaySchema  `json:"specialDays,omitempty"`
	Metadata    *MetadataPatchSchema         `json:"metadata,omitempty"`
}

// AddSpecialDayRequest 新增特殊日期请求
type AddSpecialDayRequest struct {
	Date       string           `json:"date" binding:"required"`
	SpecialDay SpecialDaySchema `json:"specialDay" binding:"required"`
}

// ── 响应 ──

// ScheduleResponse 排班响应
type ScheduleResponse struct {
	ID          int64                        `json:"id"`
	DeviceID    int64                        `json:"deviceId"`
	DeviceName  string                       `json:"deviceName,omitempty"`
	Schedule    map[string]DayScheduleSchema `json:"schedule"`
	ExtraHours  map[string][]ExtraHourSchema `json:"extraHours,omitempty"`
	SpecialDays map[string]SpecialDaySchema  `json:"specialDays,omitempty"`
	Metadata    MetadataSchema               `json:"metadata"`
	CreatedAt   string                       `json:"createdAt"`
	UpdatedAt   string                       `json:"updatedAt"`
}

// EffectiveScheduleResponse 某日生效排班响应
type EffectiveScheduleResponse struct {
	DeviceID    int64              `json:"deviceId"`
	Date        string             `json:"date"`
	Weekday     string             `json:"weekday"`
	Schedule    *DayScheduleSchema `json:"schedule"`
	WorkMinutes int                `json:"workMinutes"`
}

// SpecialDaysResponse 设备特殊日期集合响应
type SpecialDaysResponse struct {
	DeviceID    int64                       `json:"deviceId"`
	SpecialDays map[string]SpecialDaySchema `json:"specialDays"`
}

// DeleteResponse 删除结果响应
type DeleteResponse struct {
	DeviceID int64 `json:"deviceId"`
	Deleted  bool  `json:"deleted"`
}
