package model

const (
	breakMinMinutes = 5
	breakMaxMinutes = 480
)

// Break 休息时段：起始时刻 + 时长
type Break struct {
	Start           string `json:"start"`
	DurationMinutes int    `json:"durationMinutes"`
}

// NewBreak 构造并校验休息时段
// 时长允许范围 [5, 480] 分钟
func NewBreak(start string, durationMinutes int) (Break, error) {
	if _, err := ClockMinutes(start); err != nil {
		return Break{}, err
	}
	if durationMinutes < breakMinMinutes || durationMinutes > breakMaxMinutes {
		return Break{}, newValidationError(ErrKindRange,
			"休息时长必须在 %d 到 %d 分钟之间: %d", breakMinMinutes, breakMaxMinutes, durationMinutes)
	}
	return Break{Start: start, DurationMinutes: durationMinutes}, nil
}

// StartMinutes 开始时刻（自午夜起的分钟数）
func (b Break) StartMinutes() int {
	m, _ := ClockMinutes(b.Start)
	return m
}

// EndMinutes 结束时刻（自午夜起的分钟数）
func (b Break) EndMinutes() int {
	return b.StartMinutes() + b.DurationMinutes
}

// EndClock 结束时刻，HH:MM 格式
func (b Break) EndClock() string {
	return MinutesToClock(b.EndMinutes())
}
