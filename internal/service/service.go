package service

import (
	"go.uber.org/zap"

	"github.com/SRobles97/shifts-api/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Schedule ScheduleService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	return &Service{
		Schedule: NewScheduleService(repo, logger),
		Export:   NewExportService(repo, logger),
	}
}
