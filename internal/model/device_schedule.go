package model

import (
	"time"

	"gorm.io/datatypes"
)

// DeviceSchedule 设备排程存储行，对应 device_schedules 表
// 每设备唯一（device_id 唯一约束），三个 JSONB 列分别存
// 周排程、加班时段与特殊日，键为小写星期名 / ISO 日期。
type DeviceSchedule struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"                json:"id"`
	DeviceID     int64          `gorm:"not null;uniqueIndex"                    json:"device_id"`
	DaySchedules datatypes.JSON `gorm:"type:jsonb;not null"                     json:"day_schedules"`
	ExtraHours   datatypes.JSON `gorm:"type:jsonb"                              json:"extra_hours,omitempty"`
	SpecialDays  datatypes.JSON `gorm:"type:jsonb"                              json:"special_days,omitempty"`
	Version      string         `gorm:"type:varchar(20);not null;default:'1.0'" json:"version"`
	Source       string         `gorm:"type:varchar(50);not null;default:'api'" json:"source"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"      json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"      json:"updated_at"`

	// 关联
	Device *Device `gorm:"foreignKey:DeviceID;references:DeviceID" json:"device,omitempty"`
}

// TableName 指定表名
func (DeviceSchedule) TableName() string { return "device_schedules" }
