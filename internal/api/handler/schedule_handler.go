package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SRobles97/shifts-api/internal/dto"
	"github.com/SRobles97/shifts-api/internal/model"
	"github.com/SRobles97/shifts-api/internal/service"
	"github.com/SRobles97/shifts-api/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// deviceIDParam 解析路径中的 deviceId
func deviceIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("deviceId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "deviceId 必须为正整数")
		return 0, false
	}
	return id, true
}

// CreateSchedule 创建或整体覆盖设备排班
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.ScheduleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.scheduleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, resp)
}

// UpdateSchedule 整体更新设备排班
// PUT /api/v1/schedules/:deviceId
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}
	var req dto.ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.scheduleSvc.Update(c.Request.Context(), deviceID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// PatchSchedule 局部更新设备排班
// PATCH /api/v1/schedules/:deviceId
func (h *ScheduleHandler) PatchSchedule(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}
	var req dto.SchedulePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.scheduleSvc.Patch(c.Request.Context(), deviceID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListSchedules 获取全部设备排班
// GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.scheduleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": schedules})
}

// GetSchedule 获取单个设备排班
// GET /api/v1/schedules/:deviceId
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.GetByDevice(c.Request.Context(), deviceID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	// 无排班配置时 data 为空，不视为错误
	response.OK(c, resp)
}

// ListSchedulesByDay 按星期查询设备排班
// GET /api/v1/schedules/by-day/:day
func (h *ScheduleHandler) ListSchedulesByDay(c *gin.Context) {
	schedules, err := h.scheduleSvc.ListByDay(c.Request.Context(), c.Param("day"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": schedules})
}

// DeleteSchedule 删除设备排班
// DELETE /api/v1/schedules/:deviceId
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.Delete(c.Request.Context(), deviceID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetSpecialDays 获取设备特殊日集合
// GET /api/v1/schedules/special-days/:deviceId
func (h *ScheduleHandler) GetSpecialDays(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.SpecialDays(c.Request.Context(), deviceID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// AddSpecialDay 为设备新增特殊日
// POST /api/v1/schedules/special-days/:deviceId?date=YYYY-MM-DD
func (h *ScheduleHandler) AddSpecialDay(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 查询参数不能为空")
		return
	}
	var req dto.SpecialDaySchema
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.scheduleSvc.AddSpecialDay(c.Request.Context(), deviceID, date, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, resp)
}

// DeleteSpecialDay 删除设备的某个特殊日
// DELETE /api/v1/schedules/special-days/:deviceId/:date
func (h *ScheduleHandler) DeleteSpecialDay(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.DeleteSpecialDay(c.Request.Context(), deviceID, c.Param("date"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ImportSpecialDaysICS 从 iCalendar 文件导入特殊日
// POST /api/v1/schedules/special-days/:deviceId/import-ics
// 请求体为原始 ICS 内容（text/calendar）
func (h *ScheduleHandler) ImportSpecialDaysICS(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, 10001, "读取请求体失败")
		return
	}

	resp, err := h.scheduleSvc.ImportSpecialDaysICS(c.Request.Context(), deviceID, content)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, resp)
}

// GetEffectiveSchedule 解析某日生效排班
// GET /api/v1/schedules/effective-schedule/:deviceId/:date
func (h *ScheduleHandler) GetEffectiveSchedule(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.EffectiveSchedule(c.Request.Context(), deviceID, c.Param("date"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetAllStats 获取全部设备工时统计
// GET /api/v1/schedules/stats/all
func (h *ScheduleHandler) GetAllStats(c *gin.Context) {
	resp, err := h.scheduleSvc.StatsAll(c.Request.Context())
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetDeviceStats 获取单设备工时统计
// GET /api/v1/schedules/stats/:deviceId
func (h *ScheduleHandler) GetDeviceStats(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.StatsByDevice(c.Request.Context(), deviceID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// handleScheduleError 统一处理排班模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case model.IsValidationError(err):
		response.BadRequest(c, 11001, err.Error())
	case errors.Is(err, service.ErrInvalidWeekday):
		response.BadRequest(c, 11002, "非法的星期名")
	case errors.Is(err, service.ErrDeviceRefRequired):
		response.BadRequest(c, 11003, "必须提供 deviceId 或 deviceName 之一")
	case errors.Is(err, service.ErrICSNoEvents):
		response.BadRequest(c, 11004, "ICS 内容中没有可导入的事件")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 11005, "设备排班不存在")
	case errors.Is(err, service.ErrDeviceNotFound):
		response.NotFound(c, 11006, "设备不存在")
	case errors.Is(err, service.ErrSpecialDayNotFound):
		response.NotFound(c, 11007, "指定日期的特殊日不存在")
	case errors.Is(err, service.ErrNoSpecialDays):
		response.NotFound(c, 11008, "该设备没有配置特殊日")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
