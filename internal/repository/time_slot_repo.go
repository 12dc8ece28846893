package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// TimeSlotRepository 课时时段数据访问接口
type TimeSlotRepository interface {
	ListByTerm(ctx context.Context, academicYear, semester int) ([]model.TimeSlot, error)
	CountByTerm(ctx context.Context, academicYear, semester int) (int64, error)
	// CreateBatchSkipDuplicates 批量插入，主键已存在的行跳过；返回实际插入行数
	CreateBatchSkipDuplicates(ctx context.Context, slots []model.TimeSlot) (int64, error)
	DeleteByTerm(ctx context.Context, academicYear, semester int) (int64, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo 创建 TimeSlotRepository 实例
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) ListByTerm(ctx context.Context, academicYear, semester int) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Order("slot_id ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timeSlotRepo) CountByTerm(ctx context.Context, academicYear, semester int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimeSlot{}).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Count(&count).Error
	return count, err
}

func (r *timeSlotRepo) CreateBatchSkipDuplicates(ctx context.Context, slots []model.TimeSlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&slots, 200)
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepo) DeleteByTerm(ctx context.Context, academicYear, semester int) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("academic_year = ? AND semester = ?", academicYear, semester).
		Delete(&model.TimeSlot{})
	return result.RowsAffected, result.Error
}
