package service

import (
	"fmt"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// DefaultGradeCompletionCalculator 每个排课条目计 1 课时，应排课时等于学期时段总数
type DefaultGradeCompletionCalculator struct{}

func (DefaultGradeCompletionCalculator) FindIncompleteGrades(
	placements []model.SchedulePlacement,
	grades []model.GradeLevel,
	totalSlots int,
	requiredSubjectsByGrade map[string][]string,
) []GradeCompletion {
	byGrade := make(map[string][]model.SchedulePlacement)
	for _, p := range placements {
		byGrade[p.GradeID] = append(byGrade[p.GradeID], p)
	}

	result := make([]GradeCompletion, 0)
	for _, g := range grades {
		scheduled := byGrade[g.GradeID]
		if len(scheduled) >= totalSlots {
			continue
		}

		present := make(map[string]bool, len(scheduled))
		for _, p := range scheduled {
			present[p.SubjectCode] = true
		}
		var missing []string
		for _, code := range requiredSubjectsByGrade[g.GradeID] {
			if !present[code] {
				missing = append(missing, code)
			}
		}

		result = append(result, GradeCompletion{
			GradeID:         g.GradeID,
			GradeName:       fmt.Sprintf("%d/%d", g.Year, g.Number),
			ScheduledHours:  len(scheduled),
			RequiredHours:   totalSlots,
			MissingSubjects: missing,
		})
	}
	return result
}
