package service

import (
	"fmt"
	"sort"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/termid"
)

// SlotID 生成时段标识：{学期标识}-{星期}{课时}，如 "1-2567-MON1"
func SlotID(termID, day string, period int) string {
	return fmt.Sprintf("%s-%s%d", termID, day, period)
}

// breakTypeFor 根据午休课时判定休息类型
func breakTypeFor(period int, bp model.BreakPeriods) model.BreakType {
	junior := bp.Junior == period
	senior := bp.Senior == period
	switch {
	case junior && senior:
		return model.BreakBoth
	case senior:
		return model.BreakSenior
	case junior:
		return model.BreakJunior
	default:
		return model.BreakNone
	}
}

// GenerateTimeSlots 由结构参数生成学期全部时段
// 每日从 StartTime 连排；午休课时时长为 BreakDuration，小课间在指定课时前顺延
func GenerateTimeSlots(semester termid.Semester, academicYear int, p model.TermParameters) ([]model.TimeSlot, error) {
	start, err := model.ParseClock(p.StartTime)
	if err != nil {
		return nil, err
	}
	termID := termid.EncodeSemester(semester, academicYear)

	days := orderedDays(p.Days)
	slots := make([]model.TimeSlot, 0, len(days)*p.PeriodsPerDay)
	for _, day := range days {
		cursor := start
		for period := 1; period <= p.PeriodsPerDay; period++ {
			if p.HasMiniBreak && p.MiniBreak.Period == period {
				cursor += p.MiniBreak.Duration
			}
			bt := breakTypeFor(period, p.BreakPeriods)
			length := p.PeriodDuration
			if bt != model.BreakNone {
				length = p.BreakDuration
			}
			slots = append(slots, model.TimeSlot{
				SlotID:       SlotID(termID, day, period),
				AcademicYear: academicYear,
				Semester:     int(semester),
				DayOfWeek:    day,
				Period:       period,
				StartTime:    model.FormatClock(cursor),
				EndTime:      model.FormatClock(cursor + length),
				BreakType:    bt,
			})
			cursor += length
		}
	}
	return slots, nil
}

// orderedDays 按一周顺序排列星期
func orderedDays(days []string) []string {
	rank := make(map[string]int, len(model.Weekdays))
	for i, d := range model.Weekdays {
		rank[d] = i
	}
	out := append([]string(nil), days...)
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i]] < rank[out[j]] })
	return out
}
