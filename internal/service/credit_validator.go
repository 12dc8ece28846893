package service

import (
	"fmt"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// LearningArea 学习领域
type LearningArea string

const (
	AreaThai            LearningArea = "THAI"
	AreaMathematics     LearningArea = "MATHEMATICS"
	AreaScience         LearningArea = "SCIENCE"
	AreaSocial          LearningArea = "SOCIAL"
	AreaHealthPE        LearningArea = "HEALTH_PE"
	AreaArts            LearningArea = "ARTS"
	AreaCareer          LearningArea = "CAREER"
	AreaForeignLanguage LearningArea = "FOREIGN_LANGUAGE"
)

// minCredits 各学习领域每周最低学分（初中 1-3 年级 / 高中 4-6 年级）
var minCredits = []struct {
	area   LearningArea
	name   string
	junior float64
	senior float64
}{
	{AreaThai, "泰语", 5, 3},
	{AreaMathematics, "数学", 5, 3},
	{AreaScience, "科学", 5, 3},
	{AreaSocial, "社会、宗教与文化", 4, 2},
	{AreaHealthPE, "健康与体育", 2, 2},
	{AreaArts, "艺术", 2, 1},
	{AreaCareer, "职业技术", 2, 1},
	{AreaForeignLanguage, "外语", 3, 2},
}

// AreaCreditStatus 单个学习领域的学分达标情况
type AreaCreditStatus struct {
	LearningArea LearningArea `json:"learning_area"`
	Required     float64      `json:"required"`
	Current      float64      `json:"current"`
	IsMet        bool         `json:"is_met"`
	Deficit      float64      `json:"deficit"`
}

// CreditValidationResult 培养方案学分校验结果
type CreditValidationResult struct {
	IsValid         bool               `json:"is_valid"`
	TotalCredits    float64            `json:"total_credits"`
	RequiredCredits float64            `json:"required_credits"`
	LearningAreas   []AreaCreditStatus `json:"learning_areas"`
	Errors          []string           `json:"errors"`
	Warnings        []string           `json:"warnings"`
}

// MoECreditValidator 按教育部基础教育核心课程标准校验最低学分
// 活动类课程不计入学分
type MoECreditValidator struct{}

func (MoECreditValidator) ValidateCredits(gradeYear int, subjects []model.ProgramSubject) CreditValidationResult {
	junior := gradeYear >= 1 && gradeYear <= 3
	senior := gradeYear >= 4 && gradeYear <= 6
	if !junior && !senior {
		return CreditValidationResult{
			Errors:   []string{"年级必须在 1-6 之间"},
			Warnings: []string{},
		}
	}

	byArea := make(map[LearningArea]float64)
	var total float64
	hasActivity := false
	for _, ps := range subjects {
		if ps.Category == model.SubjectCategoryActivity {
			hasActivity = true
			continue
		}
		total += ps.MinCredits
		if ps.Subject != nil {
			byArea[LearningArea(ps.Subject.LearningArea)] += ps.MinCredits
		}
	}

	result := CreditValidationResult{
		TotalCredits: total,
		Errors:       []string{},
		Warnings:     []string{},
	}
	for _, rule := range minCredits {
		required := rule.senior
		if junior {
			required = rule.junior
		}
		current := byArea[rule.area]
		status := AreaCreditStatus{
			LearningArea: rule.area,
			Required:     required,
			Current:      current,
			IsMet:        current >= required,
		}
		if !status.IsMet {
			status.Deficit = required - current
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: 最低需要 %g 学分，实际 %g（缺 %g）", rule.name, required, current, status.Deficit))
		}
		result.RequiredCredits += required
		result.LearningAreas = append(result.LearningAreas, status)
	}

	if !hasActivity {
		result.Warnings = append(result.Warnings, "未配置学生发展活动（社团、指导、童子军）")
	}
	if total < result.RequiredCredits {
		result.Errors = append(result.Errors,
			fmt.Sprintf("总学分未达标: 需要 %g，实际 %g", result.RequiredCredits, total))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
