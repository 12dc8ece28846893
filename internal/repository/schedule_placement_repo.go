package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// SchedulePlacementRepository 排课条目数据访问接口
type SchedulePlacementRepository interface {
	// ListByTerm 按时段所属学期查询；locked 为 nil 时不区分锁定状态
	ListByTerm(ctx context.Context, academicYear, semester int, locked *bool) ([]model.SchedulePlacement, error)
	// CreateSkipDuplicate 插入排课条目及其教学任务关联；ClassID 已存在时返回 false 且不写入
	CreateSkipDuplicate(ctx context.Context, placement *model.SchedulePlacement) (bool, error)
	DeleteByTerm(ctx context.Context, academicYear, semester int) (int64, error)
}

type schedulePlacementRepo struct {
	db *gorm.DB
}

// NewSchedulePlacementRepo 创建 SchedulePlacementRepository 实例
func NewSchedulePlacementRepo(db *gorm.DB) SchedulePlacementRepository {
	return &schedulePlacementRepo{db: db}
}

func (r *schedulePlacementRepo) termSlotIDs(db *gorm.DB, academicYear, semester int) *gorm.DB {
	return db.Model(&model.TimeSlot{}).
		Select("slot_id").
		Where("academic_year = ? AND semester = ?", academicYear, semester)
}

func (r *schedulePlacementRepo) ListByTerm(ctx context.Context, academicYear, semester int, locked *bool) ([]model.SchedulePlacement, error) {
	db := r.db.WithContext(ctx)
	query := db.Where("slot_id IN (?)", r.termSlotIDs(db, academicYear, semester))
	if locked != nil {
		query = query.Where("locked = ?", *locked)
	}

	var placements []model.SchedulePlacement
	if err := query.Order("class_id ASC").Find(&placements).Error; err != nil {
		return nil, err
	}
	if len(placements) == 0 {
		return placements, nil
	}

	classIDs := make([]string, len(placements))
	for i := range placements {
		classIDs[i] = placements[i].ClassID
	}
	var links []model.PlacementAssignment
	if err := db.Where("class_id IN ?", classIDs).
		Order("assignment_id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	byClass := make(map[string][]string, len(placements))
	for _, l := range links {
		byClass[l.ClassID] = append(byClass[l.ClassID], l.AssignmentID)
	}
	for i := range placements {
		placements[i].AssignmentIDs = byClass[placements[i].ClassID]
	}
	return placements, nil
}

func (r *schedulePlacementRepo) CreateSkipDuplicate(ctx context.Context, placement *model.SchedulePlacement) (bool, error) {
	db := r.db.WithContext(ctx)
	result := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(placement)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if len(placement.AssignmentIDs) == 0 {
		return true, nil
	}
	links := make([]model.PlacementAssignment, 0, len(placement.AssignmentIDs))
	for _, id := range placement.AssignmentIDs {
		links = append(links, model.PlacementAssignment{ClassID: placement.ClassID, AssignmentID: id})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByTerm 删除学期全部排课条目及其关联
func (r *schedulePlacementRepo) DeleteByTerm(ctx context.Context, academicYear, semester int) (int64, error) {
	db := r.db.WithContext(ctx)
	classIDs := db.Model(&model.SchedulePlacement{}).
		Select("class_id").
		Where("slot_id IN (?)", r.termSlotIDs(db, academicYear, semester))
	if err := db.Where("class_id IN (?)", classIDs).Delete(&model.PlacementAssignment{}).Error; err != nil {
		return 0, err
	}
	result := db.
		Where("slot_id IN (?)", r.termSlotIDs(db, academicYear, semester)).
		Delete(&model.SchedulePlacement{})
	return result.RowsAffected, result.Error
}
