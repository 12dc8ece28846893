package model

import (
	"fmt"
	"time"
)

// TermParametersSchemaVersion 当前参数结构版本
const TermParametersSchemaVersion = 1

// 每日课时上限
const maxPeriodsPerDay = 20

// Weekdays 合法的星期代码（按一周顺序）
var Weekdays = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// BreakPeriods 初中部 / 高中部午休所在课时
type BreakPeriods struct {
	Junior int `json:"junior"`
	Senior int `json:"senior"`
}

// MiniBreak 小课间，插在指定课时之前
type MiniBreak struct {
	Period   int `json:"period"`
	Duration int `json:"duration"`
}

// TermParameters 学期结构参数（强类型，写入前校验）
type TermParameters struct {
	SchemaVersion  int          `json:"schema_version"`
	Days           []string     `json:"days"`
	StartTime      string       `json:"start_time"`      // HH:MM
	PeriodDuration int          `json:"period_duration"` // 分钟
	PeriodsPerDay  int          `json:"periods_per_day"`
	BreakDuration  int          `json:"break_duration"` // 分钟
	BreakPeriods   BreakPeriods `json:"break_periods"`
	HasMiniBreak   bool         `json:"has_mini_break"`
	MiniBreak      MiniBreak    `json:"mini_break"`
}

// Validate 校验参数，返回首个不合法字段
func (p TermParameters) Validate() error {
	if p.SchemaVersion != TermParametersSchemaVersion {
		return fmt.Errorf("schema_version 仅支持 %d，实际 %d", TermParametersSchemaVersion, p.SchemaVersion)
	}
	if len(p.Days) == 0 {
		return fmt.Errorf("days 不能为空")
	}
	seen := make(map[string]bool, len(p.Days))
	for _, d := range p.Days {
		if !isWeekday(d) {
			return fmt.Errorf("days 包含非法星期 %q", d)
		}
		if seen[d] {
			return fmt.Errorf("days 包含重复星期 %q", d)
		}
		seen[d] = true
	}
	if _, err := ParseClock(p.StartTime); err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	if p.PeriodDuration <= 0 {
		return fmt.Errorf("period_duration 必须大于 0")
	}
	if p.PeriodsPerDay < 1 || p.PeriodsPerDay > maxPeriodsPerDay {
		return fmt.Errorf("periods_per_day 必须在 1-%d 之间", maxPeriodsPerDay)
	}
	if p.BreakDuration <= 0 {
		return fmt.Errorf("break_duration 必须大于 0")
	}
	if !p.periodInRange(p.BreakPeriods.Junior) {
		return fmt.Errorf("break_periods.junior 必须在 1-%d 之间", p.PeriodsPerDay)
	}
	if !p.periodInRange(p.BreakPeriods.Senior) {
		return fmt.Errorf("break_periods.senior 必须在 1-%d 之间", p.PeriodsPerDay)
	}
	if p.HasMiniBreak {
		if !p.periodInRange(p.MiniBreak.Period) {
			return fmt.Errorf("mini_break.period 必须在 1-%d 之间", p.PeriodsPerDay)
		}
		if p.MiniBreak.Duration <= 0 {
			return fmt.Errorf("mini_break.duration 必须大于 0")
		}
	}
	return nil
}

func (p TermParameters) periodInRange(period int) bool {
	return period >= 1 && period <= p.PeriodsPerDay
}

func isWeekday(d string) bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// ParseClock 解析 HH:MM，返回当日分钟数
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("时间格式应为 HH:MM，实际 %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock 将当日分钟数格式化为 HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}
