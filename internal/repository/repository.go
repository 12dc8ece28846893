package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	TermConfig TermConfigRepository
	TimeSlot   TimeSlotRepository
	Assignment TeachingAssignmentRepository
	Placement  SchedulePlacementRepository
	Curriculum CurriculumRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		TermConfig: NewTermConfigRepo(db),
		TimeSlot:   NewTimeSlotRepo(db),
		Assignment: NewTeachingAssignmentRepo(db),
		Placement:  NewSchedulePlacementRepo(db),
		Curriculum: NewCurriculumRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository 副本；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 工作单元：fn 返回 nil 提交，返回错误或 panic 回滚
// 在事务内再次调用时使用保存点，只回滚内层写入
// 未注入数据库时直接在当前 Repository 上执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// AutoMigrate 按模型建表（SQLite 本地演练与测试使用，生产走 SQL 迁移）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.TermConfig{},
		&model.TimeSlot{},
		&model.TeachingAssignment{},
		&model.SchedulePlacement{},
		&model.PlacementAssignment{},
		&model.Program{},
		&model.Subject{},
		&model.ProgramSubject{},
		&model.GradeLevel{},
		&model.Room{},
	)
}
