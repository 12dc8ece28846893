package service

import (
	"strings"
	"testing"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

func programSubject(code string, area LearningArea, credits float64) model.ProgramSubject {
	return model.ProgramSubject{
		SubjectCode: code,
		Category:    model.SubjectCategoryCore,
		MinCredits:  credits,
		IsMandatory: true,
		Subject:     &model.Subject{SubjectCode: code, Name: code, LearningArea: string(area)},
	}
}

// juniorProgram 满足初中最低学分的培养方案课程
func juniorProgram() []model.ProgramSubject {
	return []model.ProgramSubject{
		programSubject("TH101", AreaThai, 5),
		programSubject("MA101", AreaMathematics, 5),
		programSubject("SC101", AreaScience, 5),
		programSubject("SO101", AreaSocial, 4),
		programSubject("PE101", AreaHealthPE, 2),
		programSubject("AR101", AreaArts, 2),
		programSubject("CA101", AreaCareer, 2),
		programSubject("EN101", AreaForeignLanguage, 3),
		{SubjectCode: "ACT01", Category: model.SubjectCategoryActivity, MinCredits: 1},
	}
}

func TestMoECreditValidator_JuniorValid(t *testing.T) {
	r := MoECreditValidator{}.ValidateCredits(1, juniorProgram())
	if !r.IsValid {
		t.Fatalf("期望合规，实际错误: %v", r.Errors)
	}
	if r.TotalCredits != 28 || r.RequiredCredits != 28 {
		t.Errorf("期望总学分 28/28，实际: %g/%g", r.TotalCredits, r.RequiredCredits)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("已配置活动课，不应有警告: %v", r.Warnings)
	}
	if len(r.LearningAreas) != 8 {
		t.Errorf("期望 8 个学习领域，实际: %d", len(r.LearningAreas))
	}
}

func TestMoECreditValidator_Deficit(t *testing.T) {
	subjects := juniorProgram()
	subjects[1].MinCredits = 3 // 数学缺 2 学分

	r := MoECreditValidator{}.ValidateCredits(2, subjects)
	if r.IsValid {
		t.Fatal("期望不合规")
	}
	// 领域缺口 + 总学分缺口
	if len(r.Errors) != 2 {
		t.Fatalf("期望 2 条错误，实际: %v", r.Errors)
	}
	if !strings.Contains(r.Errors[0], "数学") {
		t.Errorf("期望提示数学学分不足，实际: %s", r.Errors[0])
	}
	for _, a := range r.LearningAreas {
		if a.LearningArea == AreaMathematics && (a.IsMet || a.Deficit != 2) {
			t.Errorf("数学领域期望缺 2 学分，实际: %+v", a)
		}
	}
}

func TestMoECreditValidator_SeniorThresholds(t *testing.T) {
	subjects := []model.ProgramSubject{
		programSubject("TH401", AreaThai, 3),
		programSubject("MA401", AreaMathematics, 3),
		programSubject("SC401", AreaScience, 3),
		programSubject("SO401", AreaSocial, 2),
		programSubject("PE401", AreaHealthPE, 2),
		programSubject("AR401", AreaArts, 1),
		programSubject("CA401", AreaCareer, 1),
		programSubject("EN401", AreaForeignLanguage, 2),
	}
	r := MoECreditValidator{}.ValidateCredits(5, subjects)
	if !r.IsValid {
		t.Fatalf("高中最低学分应合规，实际错误: %v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("未配置活动课应有 1 条警告，实际: %v", r.Warnings)
	}

	// 同样的课程放在初中年级不合规
	if (MoECreditValidator{}).ValidateCredits(3, subjects).IsValid {
		t.Error("高中学分不满足初中要求")
	}
}

func TestMoECreditValidator_ActivityExcluded(t *testing.T) {
	subjects := juniorProgram()
	subjects = append(subjects, model.ProgramSubject{
		SubjectCode: "ACT02",
		Category:    model.SubjectCategoryActivity,
		MinCredits:  10,
		Subject:     &model.Subject{SubjectCode: "ACT02", LearningArea: string(AreaThai)},
	})
	r := MoECreditValidator{}.ValidateCredits(1, subjects)
	if r.TotalCredits != 28 {
		t.Errorf("活动课不应计入学分，实际总学分: %g", r.TotalCredits)
	}
}

func TestMoECreditValidator_InvalidYear(t *testing.T) {
	for _, year := range []int{0, 7, -1} {
		r := MoECreditValidator{}.ValidateCredits(year, juniorProgram())
		if r.IsValid || len(r.Errors) != 1 {
			t.Errorf("年级 %d 期望单条错误，实际: %+v", year, r)
		}
	}
}
