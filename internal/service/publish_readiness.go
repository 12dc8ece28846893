package service

import (
	"context"
	"fmt"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
)

// 就绪状态
const (
	ReadinessReady      = "ready"
	ReadinessIncomplete = "incomplete"
	ReadinessMoEFailed  = "moe-failed"
)

// GradeCompletion 单个班级排课完成情况
type GradeCompletion struct {
	GradeID         string   `json:"grade_id"`
	GradeName       string   `json:"grade_name"`
	ScheduledHours  int      `json:"scheduled_hours"`
	RequiredHours   int      `json:"required_hours"`
	MissingSubjects []string `json:"missing_subjects,omitempty"`
}

// GradeCompletionCalculator 班级排课完成度计算
type GradeCompletionCalculator interface {
	// FindIncompleteGrades 返回已排课时少于应排课时的班级
	FindIncompleteGrades(placements []model.SchedulePlacement, grades []model.GradeLevel, totalSlots int, requiredSubjectsByGrade map[string][]string) []GradeCompletion
}

// CreditValidator 课程学分合规校验
type CreditValidator interface {
	ValidateCredits(gradeYear int, subjects []model.ProgramSubject) CreditValidationResult
}

// ReadinessInput 就绪检查输入
type ReadinessInput struct {
	Placements              []model.SchedulePlacement
	Grades                  []model.GradeLevel
	TotalSlots              int
	RequiredSubjectsByGrade map[string][]string
	Programs                []model.Program
}

// ProgramValidation 单个培养方案的学分校验结果
type ProgramValidation struct {
	ProgramID   string                 `json:"program_id"`
	ProgramName string                 `json:"program_name"`
	Year        int                    `json:"year"`
	Result      CreditValidationResult `json:"result"`
}

// ReadinessDetails 就绪检查明细
type ReadinessDetails struct {
	IncompleteGrades     []GradeCompletion   `json:"incomplete_grades"`
	MoEValidationResults []ProgramValidation `json:"moe_validation_results"`
}

// ReadinessReport 发布就绪报告
type ReadinessReport struct {
	Status  string           `json:"status"`
	Issues  []string         `json:"issues"`
	Details ReadinessDetails `json:"details"`
}

// ReadinessChecker 汇总排课完成度与学分合规，只读无副作用
type ReadinessChecker struct {
	grades  GradeCompletionCalculator
	credits CreditValidator
}

// NewReadinessChecker 创建就绪检查器；参数为 nil 时使用默认实现
func NewReadinessChecker(grades GradeCompletionCalculator, credits CreditValidator) *ReadinessChecker {
	if grades == nil {
		grades = DefaultGradeCompletionCalculator{}
	}
	if credits == nil {
		credits = MoECreditValidator{}
	}
	return &ReadinessChecker{grades: grades, credits: credits}
}

// Check 计算就绪状态：存在未完成班级时为 incomplete（学分问题仍列入 issues），
// 否则任一方案学分不合规为 moe-failed，全部通过为 ready
func (c *ReadinessChecker) Check(in ReadinessInput) *ReadinessReport {
	report := &ReadinessReport{
		Issues: []string{},
		Details: ReadinessDetails{
			IncompleteGrades:     []GradeCompletion{},
			MoEValidationResults: []ProgramValidation{},
		},
	}

	incomplete := c.grades.FindIncompleteGrades(in.Placements, in.Grades, in.TotalSlots, in.RequiredSubjectsByGrade)
	for _, g := range incomplete {
		if g.ScheduledHours >= g.RequiredHours {
			continue
		}
		report.Details.IncompleteGrades = append(report.Details.IncompleteGrades, g)
		report.Issues = append(report.Issues, fmt.Sprintf("班级 %s 排课未完成：已排 %d / 应排 %d 课时", g.GradeName, g.ScheduledHours, g.RequiredHours))
	}

	moeFailed := false
	for _, p := range in.Programs {
		result := c.credits.ValidateCredits(p.Year, p.Subjects)
		report.Details.MoEValidationResults = append(report.Details.MoEValidationResults, ProgramValidation{
			ProgramID:   p.ProgramID,
			ProgramName: p.Name,
			Year:        p.Year,
			Result:      result,
		})
		if result.IsValid {
			continue
		}
		moeFailed = true
		for _, e := range result.Errors {
			report.Issues = append(report.Issues, fmt.Sprintf("%d年级 %s: %s", p.Year, p.Name, e))
		}
	}

	switch {
	case len(report.Details.IncompleteGrades) > 0:
		report.Status = ReadinessIncomplete
	case moeFailed:
		report.Status = ReadinessMoEFailed
	default:
		report.Status = ReadinessReady
	}
	return report
}

// LoadReadinessInput 读取学期排课、班级、时段数与启用方案，并由必修课程推导各班级应排科目
func LoadReadinessInput(ctx context.Context, repo *repository.Repository, academicYear, semester int) (*ReadinessInput, error) {
	placements, err := repo.Placement.ListByTerm(ctx, academicYear, semester, nil)
	if err != nil {
		return nil, fmt.Errorf("查询排课失败: %w", err)
	}
	grades, err := repo.Curriculum.ListGradeLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询班级失败: %w", err)
	}
	slotCount, err := repo.TimeSlot.CountByTerm(ctx, academicYear, semester)
	if err != nil {
		return nil, fmt.Errorf("统计时段失败: %w", err)
	}
	programs, err := repo.Curriculum.ListActivePrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询培养方案失败: %w", err)
	}

	mandatory := make(map[string][]string, len(programs))
	for _, p := range programs {
		for _, ps := range p.Subjects {
			if ps.IsMandatory {
				mandatory[p.ProgramID] = append(mandatory[p.ProgramID], ps.SubjectCode)
			}
		}
	}
	required := make(map[string][]string, len(grades))
	for _, g := range grades {
		if g.ProgramID == nil {
			continue
		}
		if codes, ok := mandatory[*g.ProgramID]; ok {
			required[g.GradeID] = codes
		}
	}

	return &ReadinessInput{
		Placements:              placements,
		Grades:                  grades,
		TotalSlots:              int(slotCount),
		RequiredSubjectsByGrade: required,
		Programs:                programs,
	}, nil
}
