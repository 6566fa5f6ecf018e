package model

import "time"

// Device 设备注册表，对应 devices 表
// 排程通过 device_id 外键挂在设备上
type Device struct {
	DeviceID  int64     `gorm:"primaryKey;autoIncrement"               json:"device_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"     json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"     json:"updated_at"`
}

// TableName 指定表名
func (Device) TableName() string { return "devices" }
