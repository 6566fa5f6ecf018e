package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SRobles97/shifts-api/internal/model"
)

// DeviceRepository 设备注册表数据访问接口
type DeviceRepository interface {
	Create(ctx context.Context, device *model.Device) error
	GetByID(ctx context.Context, deviceID int64) (*model.Device, error)
	GetByName(ctx context.Context, name string) (*model.Device, error)
	List(ctx context.Context) ([]model.Device, error)
}

type deviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepo 创建 DeviceRepository 实例
func NewDeviceRepo(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) Create(ctx context.Context, device *model.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *deviceRepo) GetByID(ctx context.Context, deviceID int64) (*model.Device, error) {
	var device model.Device
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) GetByName(ctx context.Context, name string) (*model.Device, error) {
	var device model.Device
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) List(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	err := r.db.WithContext(ctx).
		Order("device_id ASC").
		Find(&devices).Error
	return devices, err
}
