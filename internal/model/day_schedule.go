package model

// DaySchedule 单日排程：工作时段 + 休息时段
// 不变量：休息必须完整落在工作时段内
type DaySchedule struct {
	WorkHours WorkHours `json:"workHours"`
	BreakTime Break     `json:"break"`
}

// NewDaySchedule 构造并校验单日排程
// 包含性校验在构造时执行，不延迟到使用时
func NewDaySchedule(workHours WorkHours, breakTime Break) (DaySchedule, error) {
	if err := validateBreakContainment(workHours, breakTime); err != nil {
		return DaySchedule{}, err
	}
	return DaySchedule{WorkHours: workHours, BreakTime: breakTime}, nil
}

// validateBreakContainment 校验休息时段落在工作时段内
// DaySchedule 与设置了工时的 SpecialDay 共用同一条规则
func validateBreakContainment(workHours WorkHours, breakTime Break) error {
	if breakTime.StartMinutes() < workHours.StartMinutes() {
		return newValidationError(ErrKindContainment,
			"休息开始时间 %s 早于工作开始时间 %s", breakTime.Start, workHours.Start)
	}
	if breakTime.StartMinutes() > workHours.EndMinutes() {
		return newValidationError(ErrKindContainment,
			"休息开始时间 %s 晚于工作结束时间 %s", breakTime.Start, workHours.End)
	}
	if breakTime.EndMinutes() > workHours.EndMinutes() {
		return newValidationError(ErrKindContainment,
			"休息结束时间 %s 超出工作结束时间 %s", breakTime.EndClock(), workHours.End)
	}
	return nil
}

// TotalWorkMinutes 扣除休息后的工作分钟数
// 上游配置错误时可能为负，此处不额外钳制，由构造期校验兜底
func (d DaySchedule) TotalWorkMinutes() int {
	return d.WorkHours.DurationMinutes() - d.BreakTime.DurationMinutes
}
