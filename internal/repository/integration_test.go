//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "github.com/SRobles97/shifts-api/pkg/errors"

	"github.com/SRobles97/shifts-api/internal/model"
	"github.com/SRobles97/shifts-api/internal/repository"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=shifts password=shifts_password dbname=shifts_test sslmode=disable TimeZone=America/Santiago"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(&model.Device{}, &model.DeviceSchedule{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Exec("DELETE FROM device_schedules")
	testDB.Exec("DELETE FROM devices")
	os.Exit(code)
}

func cleanTables(t *testing.T) {
	t.Helper()
	testDB.Exec("DELETE FROM device_schedules")
	testDB.Exec("DELETE FROM devices")
}

func createDevice(t *testing.T, repo *repository.Repository, name string) int64 {
	t.Helper()
	d := &model.Device{Name: name}
	if err := repo.Device.Create(context.Background(), d); err != nil {
		t.Fatalf("创建设备失败: %v", err)
	}
	return d.DeviceID
}

func mondayOnlySchedule(deviceID int64) *model.DeviceSchedule {
	return &model.DeviceSchedule{
		DeviceID: deviceID,
		DaySchedules: datatypes.JSON(`{
			"monday": {"workHours":{"start":"09:00","end":"17:00"},"break":{"start":"12:00","durationMinutes":60}}
		}`),
		Version: "1.0",
		Source:  "api",
	}
}

func TestScheduleRepo_UpsertReplacesByDeviceID(t *testing.T) {
	cleanTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	deviceID := createDevice(t, repo, "prensa-01")

	if err := repo.Schedule.Upsert(ctx, mondayOnlySchedule(deviceID)); err != nil {
		t.Fatalf("首次 Upsert 失败: %v", err)
	}

	replacement := mondayOnlySchedule(deviceID)
	replacement.DaySchedules = datatypes.JSON(`{
		"friday": {"workHours":{"start":"08:00","end":"14:00"},"break":{"start":"11:00","durationMinutes":30}}
	}`)
	replacement.Version = "2.0"
	if err := repo.Schedule.Upsert(ctx, replacement); err != nil {
		t.Fatalf("二次 Upsert 失败: %v", err)
	}

	var count int64
	testDB.Model(&model.DeviceSchedule{}).Where("device_id = ?", deviceID).Count(&count)
	if count != 1 {
		t.Fatalf("同一设备应只有一行，实际=%d", count)
	}

	got, err := repo.Schedule.GetByDeviceID(ctx, deviceID)
	if err != nil {
		t.Fatalf("GetByDeviceID 失败: %v", err)
	}
	if got.Version != "2.0" {
		t.Errorf("期望 version=2.0，实际=%s", got.Version)
	}
	if got.Device == nil || got.Device.Name != "prensa-01" {
		t.Errorf("应预加载设备关联，实际=%+v", got.Device)
	}
}

func TestScheduleRepo_GetByWeekday(t *testing.T) {
	cleanTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	d1 := createDevice(t, repo, "prensa-01")
	d2 := createDevice(t, repo, "horno-02")
	if err := repo.Schedule.Upsert(ctx, mondayOnlySchedule(d1)); err != nil {
		t.Fatal(err)
	}
	s2 := mondayOnlySchedule(d2)
	s2.DaySchedules = datatypes.JSON(`{
		"saturday": {"workHours":{"start":"10:00","end":"14:00"},"break":{"start":"12:00","durationMinutes":15}}
	}`)
	if err := repo.Schedule.Upsert(ctx, s2); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Schedule.GetByWeekday(ctx, "monday")
	if err != nil {
		t.Fatalf("GetByWeekday 失败: %v", err)
	}
	if len(got) != 1 || got[0].DeviceID != d1 {
		t.Errorf("期望仅 monday 设备 %d，实际=%+v", d1, got)
	}
}

func TestScheduleRepo_PartialUpdate(t *testing.T) {
	cleanTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	deviceID := createDevice(t, repo, "prensa-01")
	if err := repo.Schedule.Upsert(ctx, mondayOnlySchedule(deviceID)); err != nil {
		t.Fatal(err)
	}

	err := repo.Schedule.PartialUpdate(ctx, deviceID, map[string]interface{}{
		"special_days": datatypes.JSON(`{"2025-12-25":{"name":"Navidad","type":"holiday","isRecurring":false}}`),
		"updated_at":   time.Now(),
	})
	if err != nil {
		t.Fatalf("PartialUpdate 失败: %v", err)
	}

	raw, err := repo.Schedule.GetSpecialDays(ctx, deviceID)
	if err != nil {
		t.Fatalf("GetSpecialDays 失败: %v", err)
	}
	if len(raw) == 0 {
		t.Error("special_days 列应已写入")
	}

	err = repo.Schedule.PartialUpdate(ctx, deviceID+999, map[string]interface{}{"version": "9.9"})
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("更新不存在的设备应返回 ErrNotFound，实际: %v", err)
	}
}

func TestScheduleRepo_Delete(t *testing.T) {
	cleanTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	deviceID := createDevice(t, repo, "prensa-01")
	if err := repo.Schedule.Upsert(ctx, mondayOnlySchedule(deviceID)); err != nil {
		t.Fatal(err)
	}

	if err := repo.Schedule.DeleteByDeviceID(ctx, deviceID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if err := repo.Schedule.DeleteByDeviceID(ctx, deviceID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("重复删除应返回 ErrNotFound，实际: %v", err)
	}
	if _, err := repo.Schedule.GetByDeviceID(ctx, deviceID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除后查询应返回 ErrRecordNotFound，实际: %v", err)
	}
}
