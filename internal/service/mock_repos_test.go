package service

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/SRobles97/shifts-api/pkg/errors"

	"github.com/SRobles97/shifts-api/internal/model"
)

// ── Mock DeviceRepository ──

type mockDeviceRepo struct {
	devices map[int64]*model.Device
	nextID  int64
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: make(map[int64]*model.Device), nextID: 1}
}

func (m *mockDeviceRepo) Create(_ context.Context, device *model.Device) error {
	if device.DeviceID == 0 {
		device.DeviceID = m.nextID
		m.nextID++
	}
	m.devices[device.DeviceID] = device
	return nil
}

func (m *mockDeviceRepo) GetByID(_ context.Context, deviceID int64) (*model.Device, error) {
	if d, ok := m.devices[deviceID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) GetByName(_ context.Context, name string) (*model.Device, error) {
	for _, d := range m.devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) List(_ context.Context) ([]model.Device, error) {
	var result []model.Device
	for _, d := range m.devices {
		result = append(result, *d)
	}
	return result, nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[int64]*model.DeviceSchedule
	devices   *mockDeviceRepo
	nextID    int64
}

func newMockScheduleRepo(devices *mockDeviceRepo) *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules: make(map[int64]*model.DeviceSchedule),
		devices:   devices,
		nextID:    1,
	}
}

func (m *mockScheduleRepo) Upsert(_ context.Context, schedule *model.DeviceSchedule) error {
	if existing, ok := m.schedules[schedule.DeviceID]; ok {
		schedule.ID = existing.ID
		schedule.CreatedAt = existing.CreatedAt
	} else {
		schedule.ID = m.nextID
		m.nextID++
		schedule.CreatedAt = time.Now()
	}
	schedule.UpdatedAt = time.Now()
	m.schedules[schedule.DeviceID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByDeviceID(_ context.Context, deviceID int64) (*model.DeviceSchedule, error) {
	s, ok := m.schedules[deviceID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	if d, ok := m.devices.devices[deviceID]; ok {
		cp.Device = d
	}
	return &cp, nil
}

func (m *mockScheduleRepo) GetAll(_ context.Context) ([]model.DeviceSchedule, error) {
	var result []model.DeviceSchedule
	for deviceID, s := range m.schedules {
		cp := *s
		if d, ok := m.devices.devices[deviceID]; ok {
			cp.Device = d
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockScheduleRepo) GetByWeekday(_ context.Context, day string) ([]model.DeviceSchedule, error) {
	var result []model.DeviceSchedule
	for _, s := range m.schedules {
		var days map[string]json.RawMessage
		if err := json.Unmarshal(s.DaySchedules, &days); err != nil {
			return nil, err
		}
		if _, ok := days[day]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) PartialUpdate(_ context.Context, deviceID int64, fields map[string]interface{}) error {
	s, ok := m.schedules[deviceID]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	for col, val := range fields {
		switch col {
		case "day_schedules":
			s.DaySchedules = val.(datatypes.JSON)
		case "extra_hours":
			s.ExtraHours, _ = val.(datatypes.JSON)
		case "special_days":
			s.SpecialDays, _ = val.(datatypes.JSON)
		case "version":
			s.Version = val.(string)
		case "source":
			s.Source = val.(string)
		case "updated_at":
			s.UpdatedAt = val.(time.Time)
		}
	}
	return nil
}

func (m *mockScheduleRepo) DeleteByDeviceID(_ context.Context, deviceID int64) error {
	if _, ok := m.schedules[deviceID]; !ok {
		return pkgerrors.ErrNotFound
	}
	delete(m.schedules, deviceID)
	return nil
}

func (m *mockScheduleRepo) GetSpecialDays(_ context.Context, deviceID int64) (datatypes.JSON, error) {
	s, ok := m.schedules[deviceID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.SpecialDays, nil
}
