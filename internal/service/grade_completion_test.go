package service

import (
	"testing"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

func placementsFor(gradeID string, subjects ...string) []model.SchedulePlacement {
	out := make([]model.SchedulePlacement, 0, len(subjects))
	for i, s := range subjects {
		out = append(out, model.SchedulePlacement{
			ClassID:     gradeID + "-" + s + "-" + string(rune('a'+i)),
			GradeID:     gradeID,
			SubjectCode: s,
		})
	}
	return out
}

func TestDefaultGradeCompletionCalculator(t *testing.T) {
	grades := []model.GradeLevel{
		{GradeID: "101", Year: 1, Number: 1},
		{GradeID: "102", Year: 1, Number: 2},
	}
	var placements []model.SchedulePlacement
	placements = append(placements, placementsFor("101", "MA", "TH", "SC")...)
	placements = append(placements, placementsFor("102", "MA")...)

	required := map[string][]string{"102": {"MA", "TH", "SC"}}
	got := DefaultGradeCompletionCalculator{}.FindIncompleteGrades(placements, grades, 3, required)

	if len(got) != 1 {
		t.Fatalf("期望 1 个未完成班级，实际: %+v", got)
	}
	g := got[0]
	if g.GradeID != "102" || g.GradeName != "1/2" {
		t.Errorf("期望班级 1/2，实际: %+v", g)
	}
	if g.ScheduledHours != 1 || g.RequiredHours != 3 {
		t.Errorf("期望 1/3 课时，实际: %d/%d", g.ScheduledHours, g.RequiredHours)
	}
	if len(g.MissingSubjects) != 2 || g.MissingSubjects[0] != "TH" || g.MissingSubjects[1] != "SC" {
		t.Errorf("期望缺 TH、SC，实际: %v", g.MissingSubjects)
	}
}

func TestDefaultGradeCompletionCalculator_NoSlots(t *testing.T) {
	grades := []model.GradeLevel{{GradeID: "101", Year: 1, Number: 1}}
	got := DefaultGradeCompletionCalculator{}.FindIncompleteGrades(nil, grades, 0, nil)
	if len(got) != 0 {
		t.Errorf("时段总数为 0 时不应判定未完成，实际: %+v", got)
	}
}
