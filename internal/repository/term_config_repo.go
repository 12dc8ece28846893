package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	pkgerrors "github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/errors"
)

// EntityCounts 完整度计算所需的实体数量
type EntityCounts struct {
	SlotCount    int64 `json:"slots"`
	TeacherCount int64 `json:"teachers"`
	SubjectCount int64 `json:"subjects"`
	ClassCount   int64 `json:"classes"`
	RoomCount    int64 `json:"rooms"`
}

// TermConfigRepository 学期配置数据访问接口
type TermConfigRepository interface {
	Create(ctx context.Context, cfg *model.TermConfig) error
	GetByID(ctx context.Context, termID string) (*model.TermConfig, error)
	GetByTerm(ctx context.Context, academicYear, semester int) (*model.TermConfig, error)
	List(ctx context.Context) ([]model.TermConfig, error)
	UpdateStatus(ctx context.Context, cfg *model.TermConfig) error
	UpdateCompleteness(ctx context.Context, termID string, completeness int) error
	UpdateParameters(ctx context.Context, cfg *model.TermConfig) error
	Delete(ctx context.Context, termID string) error
	CountEntitiesForCompleteness(ctx context.Context, academicYear, semester int) (*EntityCounts, error)
}

type termConfigRepo struct {
	db *gorm.DB
}

// NewTermConfigRepo 创建 TermConfigRepository 实例
func NewTermConfigRepo(db *gorm.DB) TermConfigRepository {
	return &termConfigRepo{db: db}
}

func (r *termConfigRepo) Create(ctx context.Context, cfg *model.TermConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *termConfigRepo) GetByID(ctx context.Context, termID string) (*model.TermConfig, error) {
	var cfg model.TermConfig
	err := r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *termConfigRepo) GetByTerm(ctx context.Context, academicYear, semester int) (*model.TermConfig, error) {
	var cfg model.TermConfig
	err := r.db.WithContext(ctx).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *termConfigRepo) List(ctx context.Context) ([]model.TermConfig, error) {
	var cfgs []model.TermConfig
	err := r.db.WithContext(ctx).
		Order("academic_year DESC, semester DESC").
		Find(&cfgs).Error
	return cfgs, err
}

// UpdateStatus 乐观锁更新状态与发布时间
func (r *termConfigRepo) UpdateStatus(ctx context.Context, cfg *model.TermConfig) error {
	return r.updateVersioned(ctx, cfg, map[string]interface{}{
		"status":       cfg.Status,
		"published_at": cfg.PublishedAt,
		"updated_by":   cfg.UpdatedBy,
	})
}

// UpdateParameters 乐观锁更新结构参数
func (r *termConfigRepo) UpdateParameters(ctx context.Context, cfg *model.TermConfig) error {
	return r.updateVersioned(ctx, cfg, map[string]interface{}{
		"parameters": cfg.Parameters,
		"updated_by": cfg.UpdatedBy,
	})
}

func (r *termConfigRepo) updateVersioned(ctx context.Context, cfg *model.TermConfig, fields map[string]interface{}) error {
	oldVersion := cfg.Version
	fields["version"] = oldVersion + 1
	result := r.db.WithContext(ctx).
		Model(&model.TermConfig{}).
		Where("term_id = ? AND version = ?", cfg.TermID, oldVersion).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	cfg.Version = oldVersion + 1
	return nil
}

func (r *termConfigRepo) UpdateCompleteness(ctx context.Context, termID string, completeness int) error {
	result := r.db.WithContext(ctx).
		Model(&model.TermConfig{}).
		Where("term_id = ?", termID).
		Update("completeness", completeness)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *termConfigRepo) Delete(ctx context.Context, termID string) error {
	result := r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		Delete(&model.TermConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountEntitiesForCompleteness 统计学期时段、教学任务，以及全局科目、班级、教室数量
func (r *termConfigRepo) CountEntitiesForCompleteness(ctx context.Context, academicYear, semester int) (*EntityCounts, error) {
	var counts EntityCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.TimeSlot{}).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Count(&counts.SlotCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.TeachingAssignment{}).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Count(&counts.TeacherCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Subject{}).Count(&counts.SubjectCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.GradeLevel{}).Count(&counts.ClassCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Room{}).Count(&counts.RoomCount).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}
