package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/dto"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

// statusLabel 学期状态着色
func statusLabel(status string) string {
	switch model.TermStatus(status) {
	case model.TermStatusDraft:
		return warnColor.Sprint(status)
	case model.TermStatusPublished:
		return okColor.Sprint(status)
	case model.TermStatusLocked:
		return infoColor.Sprint(status)
	default:
		return color.New(color.FgHiBlack).Sprint(status)
	}
}

// readinessLabel 就绪状态着色
func readinessLabel(status string) string {
	switch status {
	case service.ReadinessReady:
		return okColor.Sprint(status)
	case service.ReadinessIncomplete:
		return warnColor.Sprint(status)
	default:
		return errColor.Sprint(status)
	}
}

func printTermLine(w io.Writer, t *dto.TermConfigResponse) {
	fmt.Fprintf(w, "%-8s %-10s 完整度 %3d%%  v%d\n", t.TermID, statusLabel(t.Status), t.Completeness, t.Version)
}

func printTermDetail(w io.Writer, t *dto.TermConfigResponse) {
	p := t.Parameters
	fmt.Fprintf(w, "学期:     %s (%d 学年第 %d 学期)\n", t.TermID, t.AcademicYear, t.Semester)
	fmt.Fprintf(w, "状态:     %s\n", statusLabel(t.Status))
	fmt.Fprintf(w, "完整度:   %d%%\n", t.Completeness)
	if t.PublishedAt != "" {
		fmt.Fprintf(w, "发布时间: %s\n", t.PublishedAt)
	}
	fmt.Fprintf(w, "版本:     %d\n", t.Version)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "上课日:   %v\n", p.Days)
	fmt.Fprintf(w, "课时:     每日 %d 节，每节 %d 分钟，%s 开始\n", p.PeriodsPerDay, p.PeriodDuration, p.StartTime)
	fmt.Fprintf(w, "午休:     初中第 %d 节 / 高中第 %d 节，%d 分钟\n", p.BreakPeriods.Junior, p.BreakPeriods.Senior, p.BreakDuration)
	if p.HasMiniBreak {
		fmt.Fprintf(w, "小课间:   第 %d 节前 %d 分钟\n", p.MiniBreak.Period, p.MiniBreak.Duration)
	}
}

func printCategory(w io.Writer, name string, c service.CategorySummary) {
	failed := fmt.Sprint(c.Failed)
	if c.Failed > 0 {
		failed = errColor.Sprint(c.Failed)
	}
	fmt.Fprintf(w, "  %-10s 共 %4d  复制 %s  跳过 %4d  失败 %s\n",
		name, c.Total, okColor.Sprintf("%4d", c.Copied), c.Skipped, failed)
}

func printCopySummary(w io.Writer, s *service.CopySummary, opts service.CopyOptions) {
	fmt.Fprintf(w, "%s → %s 复制完成\n", s.From, s.To)
	printCategory(w, "时段", s.Slots)
	if opts.Assign {
		printCategory(w, "教学任务", s.Assignments)
	}
	if opts.Lock {
		printCategory(w, "锁定课", s.Locks)
	}
	if opts.Timetable {
		printCategory(w, "课表", s.Timetables)
	}
}

func printReadiness(w io.Writer, termID string, r *service.ReadinessReport) {
	fmt.Fprintf(w, "%s 发布就绪: %s\n", termID, readinessLabel(r.Status))
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s %s\n", errColor.Sprint("✗"), issue)
	}
	for _, pv := range r.Details.MoEValidationResults {
		for _, warning := range pv.Result.Warnings {
			fmt.Fprintf(w, "  %s %d年级 %s: %s\n", warnColor.Sprint("!"), pv.Year, pv.ProgramName, warning)
		}
	}
}
