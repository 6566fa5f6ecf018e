package dto

// ── 统计模块 DTO ──

// ScheduleStatsSchema 单设备工时使用统计
type ScheduleStatsSchema struct {
	DeviceID        int64   `json:"deviceId"`
	DeviceName      string  `json:"deviceName,omitempty"`
	ScheduleStart   string  `json:"scheduleStart"`
	ScheduleEnd     string  `json:"scheduleEnd"`
	CurrentTime     string  `json:"currentTime"`
	HoursUsed       float64 `json:"hoursUsed"`
	TotalWorkHours  float64 `json:"totalWorkHours"`
	UsagePercentage float64 `json:"usagePercentage"`
}

// AllScheduleStatsResponse 全部设备统计响应
type AllScheduleStatsResponse struct {
	RequestTime string                `json:"requestTime"`
	Devices     []ScheduleStatsSchema `json:"devices"`
}

// SingleScheduleStatsResponse 单设备统计响应
type SingleScheduleStatsResponse struct {
	RequestTime string              `json:"requestTime"`
	DeviceStats ScheduleStatsSchema `json:"deviceStats"`
}
