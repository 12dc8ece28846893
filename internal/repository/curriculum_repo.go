package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// CurriculumRepository 课程结构只读访问接口
type CurriculumRepository interface {
	ListGradeLevels(ctx context.Context) ([]model.GradeLevel, error)
	// ListActivePrograms 返回启用的培养方案，预加载课程及科目
	ListActivePrograms(ctx context.Context) ([]model.Program, error)
}

type curriculumRepo struct {
	db *gorm.DB
}

// NewCurriculumRepo 创建 CurriculumRepository 实例
func NewCurriculumRepo(db *gorm.DB) CurriculumRepository {
	return &curriculumRepo{db: db}
}

func (r *curriculumRepo) ListGradeLevels(ctx context.Context) ([]model.GradeLevel, error) {
	var grades []model.GradeLevel
	err := r.db.WithContext(ctx).
		Order("year ASC, number ASC").
		Find(&grades).Error
	return grades, err
}

func (r *curriculumRepo) ListActivePrograms(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Preload("Subjects", func(db *gorm.DB) *gorm.DB {
			return db.Order("subject_code ASC")
		}).
		Preload("Subjects.Subject").
		Where("is_active = ?", true).
		Order("year ASC, program_id ASC").
		Find(&programs).Error
	return programs, err
}
