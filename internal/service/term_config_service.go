package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/dto"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/termid"
)

// ── 学期配置模块业务错误 ──

var (
	ErrTermNotFound             = errors.New("学期配置不存在")
	ErrInvalidParameters        = errors.New("学期结构参数不合法")
	ErrTermLocked               = errors.New("学期已锁定或归档，不能修改结构参数")
	ErrRegenerationNotConfirmed = errors.New("修改结构参数将清空教学任务与时段，请确认后重试")
)

// ReadinessCache 就绪报告缓存（可选）
type ReadinessCache interface {
	GetReadiness(ctx context.Context, termID string, dest interface{}) (bool, error)
	SetReadiness(ctx context.Context, termID string, report interface{}, ttl time.Duration) error
	InvalidateReadiness(ctx context.Context, termIDs ...string) error
}

// TermConfigService 学期配置业务接口
type TermConfigService interface {
	Create(ctx context.Context, req *dto.CreateTermConfigRequest, operator string) (*dto.TermConfigResponse, error)
	GetByID(ctx context.Context, termID string) (*dto.TermConfigResponse, error)
	GetByTerm(ctx context.Context, academicYear, semester int) (*dto.TermConfigResponse, error)
	List(ctx context.Context) ([]dto.TermConfigResponse, error)
	UpdateParameters(ctx context.Context, termID string, req *dto.UpdateParametersRequest, operator string) (*dto.RegenerateResponse, error)
	UpdateStatus(ctx context.Context, termID string, req *dto.UpdateStatusRequest, operator string) (*dto.TermConfigResponse, error)
	RecalculateCompleteness(ctx context.Context, termID string) (*dto.CompletenessResponse, error)
	CheckReadiness(ctx context.Context, termID string) (*ReadinessReport, error)
	Copy(ctx context.Context, req *dto.CopyTermRequest, operator string) (*CopySummary, error)
	Delete(ctx context.Context, termID string) error
}

type termConfigService struct {
	repo     *repository.Repository
	checker  *ReadinessChecker
	engine   *CopyEngine
	cache    ReadinessCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// TermConfigOptions 学期配置服务可选依赖
type TermConfigOptions struct {
	Checker         *ReadinessChecker
	Cache           ReadinessCache
	CacheTTL        time.Duration
	CopyConcurrency int
}

// NewTermConfigService 创建 TermConfigService 实例
func NewTermConfigService(repo *repository.Repository, opts TermConfigOptions, logger *zap.Logger) TermConfigService {
	checker := opts.Checker
	if checker == nil {
		checker = NewReadinessChecker(nil, nil)
	}
	return &termConfigService{
		repo:     repo,
		checker:  checker,
		engine:   NewCopyEngine(repo, logger, opts.CopyConcurrency),
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		logger:   logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *termConfigService) Create(ctx context.Context, req *dto.CreateTermConfigRequest, operator string) (*dto.TermConfigResponse, error) {
	semester := termid.Semester(req.Semester)
	if !semester.IsValid() {
		return nil, fmt.Errorf("%w: 学期只能为 1 或 2", termid.ErrMalformedIdentifier)
	}
	if err := req.Parameters.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	slots, err := GenerateTimeSlots(semester, req.AcademicYear, req.Parameters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	if _, err := s.repo.TermConfig.GetByTerm(ctx, req.AcademicYear, req.Semester); err == nil {
		return nil, ErrDuplicateTerm
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学期配置失败", zap.Error(err))
		return nil, err
	}

	cfg := &model.TermConfig{
		TermID:       termid.EncodeSemester(semester, req.AcademicYear),
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Parameters:   datatypes.NewJSONType(req.Parameters),
		Status:       model.TermStatusDraft,
		Version:      1,
		BaseModel:    model.Audit(operator),
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.TermConfig.Create(ctx, cfg); err != nil {
			return err
		}
		for i := range slots {
			slots[i].BaseModel = model.Audit(operator)
		}
		if _, err := tx.TimeSlot.CreateBatchSkipDuplicates(ctx, slots); err != nil {
			return fmt.Errorf("生成时段失败: %w", err)
		}
		_, err := s.recalculate(ctx, tx, cfg)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTerm
		}
		s.logger.Error("创建学期配置失败", zap.String("term_id", cfg.TermID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学期配置已创建",
		zap.String("term_id", cfg.TermID),
		zap.Int("slots", len(slots)),
		zap.String("operator", operator),
	)
	return s.toTermConfigResponse(cfg), nil
}

// ────────────────────── GetByID / GetByTerm / List ──────────────────────

func (s *termConfigService) GetByID(ctx context.Context, termID string) (*dto.TermConfigResponse, error) {
	cfg, err := s.getConfig(ctx, s.repo, termID)
	if err != nil {
		return nil, err
	}
	return s.toTermConfigResponse(cfg), nil
}

func (s *termConfigService) GetByTerm(ctx context.Context, academicYear, semester int) (*dto.TermConfigResponse, error) {
	if !termid.Semester(semester).IsValid() {
		return nil, fmt.Errorf("%w: 学期只能为 1 或 2", termid.ErrMalformedIdentifier)
	}
	cfg, err := s.repo.TermConfig.GetByTerm(ctx, academicYear, semester)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("查询学期配置失败",
			zap.Int("academic_year", academicYear), zap.Int("semester", semester), zap.Error(err))
		return nil, err
	}
	return s.toTermConfigResponse(cfg), nil
}

func (s *termConfigService) List(ctx context.Context) ([]dto.TermConfigResponse, error) {
	cfgs, err := s.repo.TermConfig.List(ctx)
	if err != nil {
		s.logger.Error("列出学期配置失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TermConfigResponse, 0, len(cfgs))
	for i := range cfgs {
		result = append(result, *s.toTermConfigResponse(&cfgs[i]))
	}
	return result, nil
}

// ────────────────────── UpdateParameters ──────────────────────

// UpdateParameters 修改结构参数并重建时段
// 教学任务依赖时段数量，与排课条目一并清空
func (s *termConfigService) UpdateParameters(ctx context.Context, termID string, req *dto.UpdateParametersRequest, operator string) (*dto.RegenerateResponse, error) {
	if !req.Confirm {
		return nil, ErrRegenerationNotConfirmed
	}
	if err := req.Parameters.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	result := &dto.RegenerateResponse{}
	var cfg *model.TermConfig
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		cfg, err = s.getConfig(ctx, tx, termID)
		if err != nil {
			return err
		}
		if cfg.Status == model.TermStatusLocked || cfg.Status == model.TermStatusArchived {
			return ErrTermLocked
		}

		if result.PlacementsRemoved, err = tx.Placement.DeleteByTerm(ctx, cfg.AcademicYear, cfg.Semester); err != nil {
			return fmt.Errorf("删除排课失败: %w", err)
		}
		if result.AssignmentsRemoved, err = tx.Assignment.DeleteByTerm(ctx, cfg.AcademicYear, cfg.Semester); err != nil {
			return fmt.Errorf("删除教学任务失败: %w", err)
		}
		if _, err = tx.TimeSlot.DeleteByTerm(ctx, cfg.AcademicYear, cfg.Semester); err != nil {
			return fmt.Errorf("删除时段失败: %w", err)
		}

		cfg.Parameters = datatypes.NewJSONType(req.Parameters)
		cfg.UpdatedBy = &operator
		if err := tx.TermConfig.UpdateParameters(ctx, cfg); err != nil {
			return err
		}

		slots, err := GenerateTimeSlots(termid.Semester(cfg.Semester), cfg.AcademicYear, req.Parameters)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		}
		for i := range slots {
			slots[i].BaseModel = model.Audit(operator)
		}
		if _, err := tx.TimeSlot.CreateBatchSkipDuplicates(ctx, slots); err != nil {
			return fmt.Errorf("重建时段失败: %w", err)
		}
		result.SlotsGenerated = len(slots)

		_, err = s.recalculate(ctx, tx, cfg)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("修改结构参数失败", zap.String("term_id", termID), zap.Error(err))
		}
		return nil, err
	}

	s.invalidate(ctx, termID)
	s.logger.Warn("结构参数已修改，教学任务与时段已重建",
		zap.String("term_id", termID),
		zap.Int("slots", result.SlotsGenerated),
		zap.Int64("assignments_removed", result.AssignmentsRemoved),
		zap.String("operator", operator),
	)
	result.Config = *s.toTermConfigResponse(cfg)
	return result, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *termConfigService) UpdateStatus(ctx context.Context, termID string, req *dto.UpdateStatusRequest, operator string) (*dto.TermConfigResponse, error) {
	target := model.TermStatus(req.Status)
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: 未知状态 %q", ErrIllegalTransition, req.Status)
	}
	override := strings.TrimSpace(req.OverrideReason)

	var cfg *model.TermConfig
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		cfg, err = s.getConfig(ctx, tx, termID)
		if err != nil {
			return err
		}

		from := cfg.Status
		readiness := func() (*ReadinessReport, error) {
			in, err := LoadReadinessInput(ctx, tx, cfg.AcademicYear, cfg.Semester)
			if err != nil {
				return nil, err
			}
			return s.checker.Check(*in), nil
		}
		if err := GuardTransition(from, target, cfg.Completeness, override, readiness); err != nil {
			return err
		}

		if IsPublishing(from, target) {
			now := time.Now()
			cfg.PublishedAt = &now
			if override != "" {
				s.logger.Warn("人工覆盖发布检查",
					zap.String("term_id", termID),
					zap.String("operator", operator),
					zap.String("reason", override),
					zap.Int("completeness", cfg.Completeness),
				)
			}
		}
		cfg.Status = target
		cfg.UpdatedBy = &operator
		return tx.TermConfig.UpdateStatus(ctx, cfg)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("更新学期状态失败", zap.String("term_id", termID), zap.Error(err))
		}
		return nil, err
	}

	s.invalidate(ctx, termID)
	s.logger.Info("学期状态已更新",
		zap.String("term_id", termID),
		zap.String("status", string(target)),
		zap.String("operator", operator),
	)
	return s.toTermConfigResponse(cfg), nil
}

// ────────────────────── Completeness ──────────────────────

func (s *termConfigService) RecalculateCompleteness(ctx context.Context, termID string) (*dto.CompletenessResponse, error) {
	var resp *dto.CompletenessResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cfg, err := s.getConfig(ctx, tx, termID)
		if err != nil {
			return err
		}
		resp, err = s.recalculate(ctx, tx, cfg)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("重算完整度失败", zap.String("term_id", termID), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

// recalculate 统计实体数量、计算并写回完整度
func (s *termConfigService) recalculate(ctx context.Context, tx *repository.Repository, cfg *model.TermConfig) (*dto.CompletenessResponse, error) {
	counts, err := tx.TermConfig.CountEntitiesForCompleteness(ctx, cfg.AcademicYear, cfg.Semester)
	if err != nil {
		return nil, fmt.Errorf("统计完整度失败: %w", err)
	}
	score := ScoreCompleteness(SignalsFromCounts(counts))
	if err := tx.TermConfig.UpdateCompleteness(ctx, cfg.TermID, score); err != nil {
		return nil, fmt.Errorf("写入完整度失败: %w", err)
	}
	cfg.Completeness = score

	return &dto.CompletenessResponse{
		TermID:       cfg.TermID,
		Completeness: score,
		Counts: dto.CompletenessCount{
			Slots:    counts.SlotCount,
			Teachers: counts.TeacherCount,
			Subjects: counts.SubjectCount,
			Classes:  counts.ClassCount,
			Rooms:    counts.RoomCount,
		},
	}, nil
}

// ────────────────────── Readiness ──────────────────────

// CheckReadiness 查询发布就绪报告（可走缓存；状态流转校验始终实时计算）
func (s *termConfigService) CheckReadiness(ctx context.Context, termID string) (*ReadinessReport, error) {
	cfg, err := s.getConfig(ctx, s.repo, termID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached ReadinessReport
		hit, err := s.cache.GetReadiness(ctx, termID, &cached)
		if err != nil {
			s.logger.Warn("读取就绪报告缓存失败", zap.String("term_id", termID), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	in, err := LoadReadinessInput(ctx, s.repo, cfg.AcademicYear, cfg.Semester)
	if err != nil {
		s.logger.Error("加载就绪检查数据失败", zap.String("term_id", termID), zap.Error(err))
		return nil, err
	}
	report := s.checker.Check(*in)

	if s.cache != nil {
		if err := s.cache.SetReadiness(ctx, termID, report, s.cacheTTL); err != nil {
			s.logger.Warn("写入就绪报告缓存失败", zap.String("term_id", termID), zap.Error(err))
		}
	}
	return report, nil
}

// ────────────────────── Copy ──────────────────────

func (s *termConfigService) Copy(ctx context.Context, req *dto.CopyTermRequest, operator string) (*CopySummary, error) {
	summary, err := s.engine.Copy(ctx, req.From, req.To, CopyOptions{
		Assign:    req.Assign,
		Lock:      req.Lock,
		Timetable: req.Timetable,
	}, operator)
	if err != nil {
		return nil, err
	}

	// 目标学期完整度在复制后重算，失败不影响已提交的复制结果
	if _, err := s.RecalculateCompleteness(ctx, req.To); err != nil {
		s.logger.Warn("复制后重算完整度失败", zap.String("term_id", req.To), zap.Error(err))
	}
	s.invalidate(ctx, req.To)
	return summary, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 管理员删除学期配置及其时段、教学任务、排课
func (s *termConfigService) Delete(ctx context.Context, termID string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cfg, err := s.getConfig(ctx, tx, termID)
		if err != nil {
			return err
		}
		if _, err := tx.Placement.DeleteByTerm(ctx, cfg.AcademicYear, cfg.Semester); err != nil {
			return err
		}
		if _, err := tx.Assignment.DeleteByTerm(ctx, cfg.AcademicYear, cfg.Semester); err != nil {
			return err
		}
		if _, err := tx.TimeSlot.DeleteByTerm(ctx, cfg.AcademicYear, cfg.Semester); err != nil {
			return err
		}
		return tx.TermConfig.Delete(ctx, termID)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("删除学期配置失败", zap.String("term_id", termID), zap.Error(err))
		}
		return err
	}

	s.invalidate(ctx, termID)
	s.logger.Warn("学期配置已删除", zap.String("term_id", termID))
	return nil
}

// ────────────────────── 内部方法 ──────────────────────

// getConfig 校验标识格式并查询配置
func (s *termConfigService) getConfig(ctx context.Context, repo *repository.Repository, termID string) (*model.TermConfig, error) {
	if err := termid.ValidateFormat(termID); err != nil {
		return nil, err
	}
	cfg, err := repo.TermConfig.GetByID(ctx, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("查询学期配置失败", zap.String("term_id", termID), zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

func (s *termConfigService) invalidate(ctx context.Context, termIDs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateReadiness(ctx, termIDs...); err != nil {
		s.logger.Warn("清除就绪报告缓存失败", zap.Strings("term_ids", termIDs), zap.Error(err))
	}
}

// isDomainError 业务错误无需记录错误日志
func isDomainError(err error) bool {
	for _, target := range []error{
		ErrTermNotFound, ErrInvalidParameters, ErrTermLocked, ErrIllegalTransition,
		ErrNotPublishReady, termid.ErrMalformedIdentifier,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *termConfigService) toTermConfigResponse(cfg *model.TermConfig) *dto.TermConfigResponse {
	resp := &dto.TermConfigResponse{
		TermID:       cfg.TermID,
		AcademicYear: cfg.AcademicYear,
		Semester:     cfg.Semester,
		Parameters:   cfg.Parameters.Data(),
		Status:       string(cfg.Status),
		Completeness: cfg.Completeness,
		Version:      cfg.Version,
		CreatedAt:    cfg.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    cfg.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if cfg.PublishedAt != nil {
		resp.PublishedAt = cfg.PublishedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}
