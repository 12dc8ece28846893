package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// TeachingAssignmentRepository 教学任务数据访问接口
type TeachingAssignmentRepository interface {
	ListByTerm(ctx context.Context, academicYear, semester int) ([]model.TeachingAssignment, error)
	// CreateBatchSkipDuplicates 批量插入，自然键冲突的行跳过；返回实际插入行数
	CreateBatchSkipDuplicates(ctx context.Context, assignments []model.TeachingAssignment) (int64, error)
	DeleteByTerm(ctx context.Context, academicYear, semester int) (int64, error)
}

type teachingAssignmentRepo struct {
	db *gorm.DB
}

// NewTeachingAssignmentRepo 创建 TeachingAssignmentRepository 实例
func NewTeachingAssignmentRepo(db *gorm.DB) TeachingAssignmentRepository {
	return &teachingAssignmentRepo{db: db}
}

func (r *teachingAssignmentRepo) ListByTerm(ctx context.Context, academicYear, semester int) ([]model.TeachingAssignment, error) {
	var assignments []model.TeachingAssignment
	err := r.db.WithContext(ctx).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Order("grade_id ASC, subject_code ASC, teacher_id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *teachingAssignmentRepo) CreateBatchSkipDuplicates(ctx context.Context, assignments []model.TeachingAssignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&assignments, 200)
	return result.RowsAffected, result.Error
}

// DeleteByTerm 删除学期教学任务及其排课关联
func (r *teachingAssignmentRepo) DeleteByTerm(ctx context.Context, academicYear, semester int) (int64, error) {
	db := r.db.WithContext(ctx)
	ids := db.Model(&model.TeachingAssignment{}).
		Select("assignment_id").
		Where("academic_year = ? AND semester = ?", academicYear, semester)
	if err := db.Where("assignment_id IN (?)", ids).Delete(&model.PlacementAssignment{}).Error; err != nil {
		return 0, err
	}
	result := db.
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Delete(&model.TeachingAssignment{})
	return result.RowsAffected, result.Error
}
