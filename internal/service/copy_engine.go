package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/termid"
)

// ── 跨学期复制错误 ──

var (
	ErrSameTerm           = errors.New("源学期与目标学期不能相同")
	ErrDuplicateTerm      = errors.New("目标学期配置已存在")
	ErrCopyFlagsInvalid   = errors.New("复制锁定课或课表时必须同时复制教学任务")
	ErrCopyCategoryFailed = errors.New("排课条目全部复制失败")
)

const defaultCopyConcurrency = 8

// CopyOptions 可选复制内容
type CopyOptions struct {
	Assign    bool `json:"assign"`
	Lock      bool `json:"lock"`
	Timetable bool `json:"timetable"`
}

// ItemOutcome 单条排课复制结果
type ItemOutcome int

const (
	ItemCreated ItemOutcome = iota
	ItemSkipped
	ItemFailed
)

func (o ItemOutcome) String() string {
	switch o {
	case ItemCreated:
		return "created"
	case ItemSkipped:
		return "skipped-duplicate"
	default:
		return "failed"
	}
}

// CategorySummary 一类实体的复制统计
type CategorySummary struct {
	Total   int `json:"total"`
	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// CopySummary 跨学期复制汇总
type CopySummary struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Slots       CategorySummary `json:"slots"`
	Assignments CategorySummary `json:"assignments"`
	Locks       CategorySummary `json:"locks"`
	Timetables  CategorySummary `json:"timetables"`
}

// CopyEngine 在单个事务内将源学期配置深拷贝到目标学期
type CopyEngine struct {
	repo        *repository.Repository
	logger      *zap.Logger
	concurrency int
}

// NewCopyEngine 创建复制引擎；concurrency 为排课条目并发写入上限
func NewCopyEngine(repo *repository.Repository, logger *zap.Logger, concurrency int) *CopyEngine {
	if concurrency < 1 {
		concurrency = defaultCopyConcurrency
	}
	return &CopyEngine{repo: repo, logger: logger, concurrency: concurrency}
}

// copyTerm 已解析的学期标识
type copyTerm struct {
	id       string
	year     int
	semester termid.Semester
}

// ════════════════════════════════════════════════════════════
// 前置校验（任何写入之前）
// ════════════════════════════════════════════════════════════

func (e *CopyEngine) validate(ctx context.Context, from, to string, opts CopyOptions) (*model.TermConfig, copyTerm, copyTerm, error) {
	var src, dst copyTerm
	fromSem, fromYear, err := termid.Parse(from)
	if err != nil {
		return nil, src, dst, err
	}
	toSem, toYear, err := termid.Parse(to)
	if err != nil {
		return nil, src, dst, err
	}
	src = copyTerm{id: from, year: fromYear, semester: fromSem}
	dst = copyTerm{id: to, year: toYear, semester: toSem}

	if from == to {
		return nil, src, dst, ErrSameTerm
	}
	if (opts.Lock || opts.Timetable) && !opts.Assign {
		return nil, src, dst, ErrCopyFlagsInvalid
	}

	source, err := e.repo.TermConfig.GetByID(ctx, from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, src, dst, fmt.Errorf("%w: 源学期 %s", ErrTermNotFound, from)
		}
		return nil, src, dst, err
	}

	if _, err := e.repo.TermConfig.GetByTerm(ctx, toYear, int(toSem)); err == nil {
		return nil, src, dst, fmt.Errorf("%w: %s", ErrDuplicateTerm, to)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, src, dst, err
	}

	return source, src, dst, nil
}

// ════════════════════════════════════════════════════════════
// Copy
// ════════════════════════════════════════════════════════════

// Copy 执行跨学期复制
//
// 学期配置、时段、教学任务任一步失败整体回滚；排课条目逐条容错，
// 只有某类条目非空且全部失败时才回滚。
func (e *CopyEngine) Copy(ctx context.Context, from, to string, opts CopyOptions, operator string) (*CopySummary, error) {
	source, src, dst, err := e.validate(ctx, from, to, opts)
	if err != nil {
		return nil, err
	}

	summary := &CopySummary{From: from, To: to}
	err = e.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := e.copyConfig(ctx, tx, source, dst, operator); err != nil {
			return err
		}

		slots, err := e.copySlots(ctx, tx, src, dst)
		if err != nil {
			return err
		}
		summary.Slots = slots

		if !opts.Assign {
			return nil
		}
		assignments, lookup, err := e.copyAssignments(ctx, tx, src, dst, operator)
		if err != nil {
			return err
		}
		summary.Assignments = assignments

		if !opts.Lock && !opts.Timetable {
			return nil
		}
		destSlots, err := tx.TimeSlot.ListByTerm(ctx, dst.year, int(dst.semester))
		if err != nil {
			return fmt.Errorf("查询目标学期时段失败: %w", err)
		}
		slotSet := make(map[string]bool, len(destSlots))
		for _, s := range destSlots {
			slotSet[s.SlotID] = true
		}

		if opts.Lock {
			if summary.Locks, err = e.copyPlacements(ctx, tx, src, dst, true, lookup, slotSet, operator); err != nil {
				return err
			}
		}
		if opts.Timetable {
			if summary.Timetables, err = e.copyPlacements(ctx, tx, src, dst, false, lookup, slotSet, operator); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = fmt.Errorf("%w: %s", ErrDuplicateTerm, to)
		}
		e.logger.Error("跨学期复制失败，已回滚",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, err
	}

	e.logger.Info("跨学期复制完成",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("slots", summary.Slots.Copied),
		zap.Int("assignments", summary.Assignments.Copied),
		zap.Int("locks", summary.Locks.Copied),
		zap.Int("timetables", summary.Timetables.Copied),
	)
	return summary, nil
}

// ────────────────────── 1. 学期配置 ──────────────────────

func (e *CopyEngine) copyConfig(ctx context.Context, tx *repository.Repository, source *model.TermConfig, dst copyTerm, operator string) error {
	dest := &model.TermConfig{
		TermID:       dst.id,
		AcademicYear: dst.year,
		Semester:     int(dst.semester),
		Parameters:   source.Parameters,
		Status:       model.TermStatusDraft,
		Version:      1,
		BaseModel:    model.Audit(operator),
	}
	if err := tx.TermConfig.Create(ctx, dest); err != nil {
		return fmt.Errorf("创建目标学期配置失败: %w", err)
	}
	return nil
}

// ────────────────────── 2. 时段 ──────────────────────

func (e *CopyEngine) copySlots(ctx context.Context, tx *repository.Repository, src, dst copyTerm) (CategorySummary, error) {
	var sum CategorySummary
	slots, err := tx.TimeSlot.ListByTerm(ctx, src.year, int(src.semester))
	if err != nil {
		return sum, fmt.Errorf("查询源学期时段失败: %w", err)
	}

	remapped := make([]model.TimeSlot, 0, len(slots))
	for _, s := range slots {
		remapped = append(remapped, model.TimeSlot{
			SlotID:       termid.RemapEmbeddedIdentifier(s.SlotID, src.id, dst.id),
			AcademicYear: dst.year,
			Semester:     int(dst.semester),
			DayOfWeek:    s.DayOfWeek,
			Period:       s.Period,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			BreakType:    s.BreakType,
		})
	}
	inserted, err := tx.TimeSlot.CreateBatchSkipDuplicates(ctx, remapped)
	if err != nil {
		return sum, fmt.Errorf("复制时段失败: %w", err)
	}

	sum.Total = len(remapped)
	sum.Copied = int(inserted)
	sum.Skipped = sum.Total - sum.Copied
	return sum, nil
}

// ────────────────────── 3. 教学任务 ──────────────────────

// assignmentKey 按 (班级, 科目) 关联教学任务
func assignmentKey(gradeID, subjectCode string) string {
	return gradeID + "|" + subjectCode
}

func (e *CopyEngine) copyAssignments(ctx context.Context, tx *repository.Repository, src, dst copyTerm, operator string) (CategorySummary, map[string][]string, error) {
	var sum CategorySummary
	assignments, err := tx.Assignment.ListByTerm(ctx, src.year, int(src.semester))
	if err != nil {
		return sum, nil, fmt.Errorf("查询源学期教学任务失败: %w", err)
	}

	clones := make([]model.TeachingAssignment, 0, len(assignments))
	for _, a := range assignments {
		clones = append(clones, model.TeachingAssignment{
			AssignmentID: uuid.NewString(),
			TeacherID:    a.TeacherID,
			GradeID:      a.GradeID,
			SubjectCode:  a.SubjectCode,
			TeachHours:   a.TeachHours,
			AcademicYear: dst.year,
			Semester:     int(dst.semester),
			BaseModel:    model.Audit(operator),
		})
	}
	inserted, err := tx.Assignment.CreateBatchSkipDuplicates(ctx, clones)
	if err != nil {
		return sum, nil, fmt.Errorf("复制教学任务失败: %w", err)
	}
	sum.Total = len(clones)
	sum.Copied = int(inserted)
	sum.Skipped = sum.Total - sum.Copied

	created, err := tx.Assignment.ListByTerm(ctx, dst.year, int(dst.semester))
	if err != nil {
		return sum, nil, fmt.Errorf("查询目标学期教学任务失败: %w", err)
	}
	lookup := make(map[string][]string, len(created))
	for _, a := range created {
		key := assignmentKey(a.GradeID, a.SubjectCode)
		lookup[key] = append(lookup[key], a.AssignmentID)
	}
	return sum, lookup, nil
}

// ────────────────────── 4/5. 排课条目 ──────────────────────

func (e *CopyEngine) copyPlacements(
	ctx context.Context,
	tx *repository.Repository,
	src, dst copyTerm,
	locked bool,
	lookup map[string][]string,
	slotSet map[string]bool,
	operator string,
) (CategorySummary, error) {
	var sum CategorySummary
	category := "timetable"
	if locked {
		category = "locked"
	}

	placements, err := tx.Placement.ListByTerm(ctx, src.year, int(src.semester), &locked)
	if err != nil {
		return sum, fmt.Errorf("查询源学期排课失败: %w", err)
	}

	outcomes := make([]ItemOutcome, len(placements))
	var (
		g       errgroup.Group
		writeMu sync.Mutex
	)
	g.SetLimit(e.concurrency)
	for i := range placements {
		i := i
		g.Go(func() error {
			outcomes[i] = e.copyPlacement(ctx, tx, &writeMu, &placements[i], src, dst, lookup, slotSet, operator)
			return nil
		})
	}
	_ = g.Wait()

	sum.Total = len(placements)
	for _, o := range outcomes {
		switch o {
		case ItemCreated:
			sum.Copied++
		case ItemSkipped:
			sum.Skipped++
		default:
			sum.Failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	if sum.Total > 0 && sum.Failed == sum.Total {
		return sum, fmt.Errorf("%w: %s 共 %d 条", ErrCopyCategoryFailed, category, sum.Total)
	}
	if sum.Failed > 0 {
		e.logger.Warn("部分排课条目复制失败",
			zap.String("category", category),
			zap.Int("failed", sum.Failed),
			zap.Int("total", sum.Total),
		)
	}
	return sum, nil
}

func (e *CopyEngine) copyPlacement(
	ctx context.Context,
	tx *repository.Repository,
	writeMu *sync.Mutex,
	p *model.SchedulePlacement,
	src, dst copyTerm,
	lookup map[string][]string,
	slotSet map[string]bool,
	operator string,
) ItemOutcome {
	slotID := termid.RemapEmbeddedIdentifier(p.SlotID, src.id, dst.id)
	classID := termid.RemapEmbeddedIdentifier(p.ClassID, src.id, dst.id)

	if classID == p.ClassID {
		e.logger.Warn("排课标识未内嵌学期标识，无法复制", zap.String("class_id", p.ClassID))
		return ItemFailed
	}
	// 目标时段缺失时不写入，避免外键错误中止整个事务
	if !slotSet[slotID] {
		e.logger.Warn("目标学期缺少对应时段",
			zap.String("class_id", p.ClassID), zap.String("slot_id", slotID))
		return ItemFailed
	}

	clone := &model.SchedulePlacement{
		ClassID:       classID,
		SlotID:        slotID,
		SubjectCode:   p.SubjectCode,
		RoomID:        p.RoomID,
		GradeID:       p.GradeID,
		Locked:        p.Locked,
		BaseModel:     model.Audit(operator),
		AssignmentIDs: lookup[assignmentKey(p.GradeID, p.SubjectCode)],
	}
	// 每条写入独占一个保存点：失败只回滚本条，外层事务保持可用
	// 同一事务连接上的保存点必须串行
	var created bool
	writeMu.Lock()
	err := tx.Transaction(ctx, func(item *repository.Repository) error {
		var err error
		created, err = item.Placement.CreateSkipDuplicate(ctx, clone)
		return err
	})
	writeMu.Unlock()
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ItemSkipped
	case err != nil:
		e.logger.Error("复制排课条目失败", zap.String("class_id", p.ClassID), zap.Error(err))
		return ItemFailed
	case !created:
		return ItemSkipped
	default:
		return ItemCreated
	}
}
