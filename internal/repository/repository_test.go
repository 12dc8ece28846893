package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/database"
	pkgerrors "github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

func newTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	db, err := database.NewSQLite(":memory:", "silent")
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewRepository(db), db
}

func testParameters() model.TermParameters {
	return model.TermParameters{
		SchemaVersion:  model.TermParametersSchemaVersion,
		Days:           []string{"MON", "TUE"},
		StartTime:      "08:30",
		PeriodDuration: 50,
		PeriodsPerDay:  2,
		BreakDuration:  55,
		BreakPeriods:   model.BreakPeriods{Junior: 1, Senior: 2},
	}
}

func createTerm(t *testing.T, repo *repository.Repository, termID string, year, semester int) *model.TermConfig {
	t.Helper()
	cfg := &model.TermConfig{
		TermID:       termID,
		AcademicYear: year,
		Semester:     semester,
		Parameters:   datatypes.NewJSONType(testParameters()),
		Status:       model.TermStatusDraft,
		Version:      1,
	}
	if err := repo.TermConfig.Create(context.Background(), cfg); err != nil {
		t.Fatalf("创建学期配置失败: %v", err)
	}
	return cfg
}

// ═══════════════════════════════════════════════════════════
// TermConfig
// ═══════════════════════════════════════════════════════════

func TestTermConfig_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	createTerm(t, repo, "1-2567", 2567, 1)

	got, err := repo.TermConfig.GetByTerm(ctx, 2567, 1)
	if err != nil {
		t.Fatalf("GetByTerm 失败: %v", err)
	}
	if got.TermID != "1-2567" {
		t.Errorf("期望 1-2567，实际: %s", got.TermID)
	}
	if got.Parameters.Data().PeriodsPerDay != 2 {
		t.Errorf("期望参数反序列化 periods_per_day=2，实际: %d", got.Parameters.Data().PeriodsPerDay)
	}

	if _, err := repo.TermConfig.GetByID(ctx, "2-2567"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际: %v", err)
	}
}

func TestTermConfig_UniqueYearSemester(t *testing.T) {
	repo, _ := newTestRepo(t)
	createTerm(t, repo, "1-2567", 2567, 1)

	dup := &model.TermConfig{
		TermID:       "1-2567x",
		AcademicYear: 2567,
		Semester:     1,
		Parameters:   datatypes.NewJSONType(testParameters()),
		Status:       model.TermStatusDraft,
	}
	if err := repo.TermConfig.Create(context.Background(), dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 ErrDuplicatedKey，实际: %v", err)
	}
}

func TestTermConfig_UpdateStatusOptimisticLock(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	cfg := createTerm(t, repo, "1-2567", 2567, 1)

	stale := *cfg
	cfg.Status = model.TermStatusPublished
	if err := repo.TermConfig.UpdateStatus(ctx, cfg); err != nil {
		t.Fatalf("UpdateStatus 失败: %v", err)
	}
	if cfg.Version != 2 {
		t.Errorf("期望版本 2，实际: %d", cfg.Version)
	}

	stale.Status = model.TermStatusLocked
	if err := repo.TermConfig.UpdateStatus(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestTermConfig_CountEntitiesForCompleteness(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	createTerm(t, repo, "1-2567", 2567, 1)

	if _, err := repo.TimeSlot.CreateBatchSkipDuplicates(ctx, []model.TimeSlot{
		{SlotID: "1-2567-MON1", AcademicYear: 2567, Semester: 1, DayOfWeek: "MON", Period: 1, StartTime: "08:30", EndTime: "09:20", BreakType: model.BreakNone},
	}); err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}
	db.Create(&model.Room{RoomID: "R1", Name: "101"})
	db.Create(&model.GradeLevel{GradeID: "M1/1", Year: 1, Number: 1})

	counts, err := repo.TermConfig.CountEntitiesForCompleteness(ctx, 2567, 1)
	if err != nil {
		t.Fatalf("CountEntitiesForCompleteness 失败: %v", err)
	}
	if counts.SlotCount != 1 || counts.ClassCount != 1 || counts.RoomCount != 1 {
		t.Errorf("计数不符: %+v", counts)
	}
	if counts.TeacherCount != 0 || counts.SubjectCount != 0 {
		t.Errorf("期望教学任务与科目为 0: %+v", counts)
	}
}

// ═══════════════════════════════════════════════════════════
// TimeSlot / Placement
// ═══════════════════════════════════════════════════════════

func TestTimeSlot_CreateBatchSkipDuplicates(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	slots := []model.TimeSlot{
		{SlotID: "1-2567-MON1", AcademicYear: 2567, Semester: 1, DayOfWeek: "MON", Period: 1, StartTime: "08:30", EndTime: "09:20", BreakType: model.BreakNone},
		{SlotID: "1-2567-MON2", AcademicYear: 2567, Semester: 1, DayOfWeek: "MON", Period: 2, StartTime: "09:20", EndTime: "10:10", BreakType: model.BreakNone},
	}

	n, err := repo.TimeSlot.CreateBatchSkipDuplicates(ctx, slots[:1])
	if err != nil || n != 1 {
		t.Fatalf("首次插入期望 1 行，实际: %d, %v", n, err)
	}
	n, err = repo.TimeSlot.CreateBatchSkipDuplicates(ctx, slots)
	if err != nil {
		t.Fatalf("重复插入不应报错: %v", err)
	}
	if n != 1 {
		t.Errorf("期望仅插入 1 行新数据，实际: %d", n)
	}
	count, _ := repo.TimeSlot.CountByTerm(ctx, 2567, 1)
	if count != 2 {
		t.Errorf("期望共 2 个时段，实际: %d", count)
	}
}

func TestPlacement_CreateSkipDuplicateAndLinks(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.TimeSlot.CreateBatchSkipDuplicates(ctx, []model.TimeSlot{
		{SlotID: "1-2567-MON1", AcademicYear: 2567, Semester: 1, DayOfWeek: "MON", Period: 1, StartTime: "08:30", EndTime: "09:20", BreakType: model.BreakNone},
	}); err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}
	if _, err := repo.Assignment.CreateBatchSkipDuplicates(ctx, []model.TeachingAssignment{
		{AssignmentID: "a-1", TeacherID: "T1", GradeID: "M1/1", SubjectCode: "TH101", TeachHours: 3, AcademicYear: 2567, Semester: 1},
	}); err != nil {
		t.Fatalf("创建教学任务失败: %v", err)
	}

	p := &model.SchedulePlacement{
		ClassID: "1-2567-MON1-M1/1", SlotID: "1-2567-MON1", SubjectCode: "TH101",
		GradeID: "M1/1", Locked: true, AssignmentIDs: []string{"a-1"},
	}
	created, err := repo.Placement.CreateSkipDuplicate(ctx, p)
	if err != nil || !created {
		t.Fatalf("期望创建成功，实际: %v, %v", created, err)
	}
	again := *p
	created, err = repo.Placement.CreateSkipDuplicate(ctx, &again)
	if err != nil {
		t.Fatalf("重复创建不应报错: %v", err)
	}
	if created {
		t.Error("期望重复条目被跳过")
	}

	locked := true
	list, err := repo.Placement.ListByTerm(ctx, 2567, 1, &locked)
	if err != nil {
		t.Fatalf("ListByTerm 失败: %v", err)
	}
	if len(list) != 1 || len(list[0].AssignmentIDs) != 1 || list[0].AssignmentIDs[0] != "a-1" {
		t.Errorf("期望 1 条带关联的排课，实际: %+v", list)
	}

	unlocked := false
	list, _ = repo.Placement.ListByTerm(ctx, 2567, 1, &unlocked)
	if len(list) != 0 {
		t.Errorf("期望无非锁定排课，实际: %d", len(list))
	}
}

func TestDeleteByTerm_RemovesPlacementsAssignmentsSlots(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	repo.TimeSlot.CreateBatchSkipDuplicates(ctx, []model.TimeSlot{
		{SlotID: "1-2567-MON1", AcademicYear: 2567, Semester: 1, DayOfWeek: "MON", Period: 1, StartTime: "08:30", EndTime: "09:20", BreakType: model.BreakNone},
	})
	repo.Assignment.CreateBatchSkipDuplicates(ctx, []model.TeachingAssignment{
		{AssignmentID: "a-1", TeacherID: "T1", GradeID: "M1/1", SubjectCode: "TH101", AcademicYear: 2567, Semester: 1},
	})
	repo.Placement.CreateSkipDuplicate(ctx, &model.SchedulePlacement{
		ClassID: "1-2567-MON1-M1/1", SlotID: "1-2567-MON1", SubjectCode: "TH101", GradeID: "M1/1", AssignmentIDs: []string{"a-1"},
	})

	if _, err := repo.Placement.DeleteByTerm(ctx, 2567, 1); err != nil {
		t.Fatalf("删除排课失败: %v", err)
	}
	if _, err := repo.Assignment.DeleteByTerm(ctx, 2567, 1); err != nil {
		t.Fatalf("删除教学任务失败: %v", err)
	}
	if _, err := repo.TimeSlot.DeleteByTerm(ctx, 2567, 1); err != nil {
		t.Fatalf("删除时段失败: %v", err)
	}

	var links int64
	db.Model(&model.PlacementAssignment{}).Count(&links)
	if links != 0 {
		t.Errorf("期望关联已清空，实际: %d", links)
	}
	count, _ := repo.TimeSlot.CountByTerm(ctx, 2567, 1)
	if count != 0 {
		t.Errorf("期望时段已清空，实际: %d", count)
	}
}

// ═══════════════════════════════════════════════════════════
// Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		createTerm(t, txRepo, "1-2567", 2567, 1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 fn 的错误，实际: %v", err)
	}
	if _, err := repo.TermConfig.GetByID(ctx, "1-2567"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望回滚后查不到记录，实际: %v", err)
	}
}

func TestTransaction_Commit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		createTerm(t, txRepo, "1-2567", 2567, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction 失败: %v", err)
	}
	if _, err := repo.TermConfig.GetByID(ctx, "1-2567"); err != nil {
		t.Errorf("期望提交后可查到记录，实际: %v", err)
	}
}

func TestCurriculum_ListActivePrograms(t *testing.T) {
	repo, db := newTestRepo(t)
	seed := []interface{}{
		&model.Subject{SubjectCode: "TH101", Name: "ภาษาไทย", LearningArea: "THAI"},
		&model.Program{ProgramID: "P1", Name: "ทั่วไป", Year: 1, IsActive: true},
		&model.Program{ProgramID: "P2", Name: "เลิกใช้", Year: 1, IsActive: true},
		&model.ProgramSubject{ProgramID: "P1", SubjectCode: "TH101", Category: model.SubjectCategoryCore, MinCredits: 5, IsMandatory: true},
	}
	for _, v := range seed {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("预置课程数据失败: %v", err)
		}
	}
	if err := db.Model(&model.Program{}).Where("program_id = ?", "P2").Update("is_active", false).Error; err != nil {
		t.Fatalf("停用方案失败: %v", err)
	}

	programs, err := repo.Curriculum.ListActivePrograms(context.Background())
	if err != nil {
		t.Fatalf("ListActivePrograms 失败: %v", err)
	}
	if len(programs) != 1 {
		t.Fatalf("期望 1 个启用方案，实际: %d", len(programs))
	}
	if len(programs[0].Subjects) != 1 || programs[0].Subjects[0].Subject == nil {
		t.Fatalf("期望预加载课程与科目，实际: %+v", programs[0].Subjects)
	}
	if programs[0].Subjects[0].Subject.LearningArea != "THAI" {
		t.Errorf("期望学习领域 THAI，实际: %s", programs[0].Subjects[0].Subject.LearningArea)
	}
}

// ═══════════════════════════════════════════════════════════
// Schema
// ═══════════════════════════════════════════════════════════

func tableSQL(t *testing.T, db *gorm.DB, table string) string {
	t.Helper()
	var ddl string
	if err := db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl).Error; err != nil {
		t.Fatalf("读取 %s 表结构失败: %v", table, err)
	}
	ddl = strings.NewReplacer("`", "", `"`, "").Replace(strings.ToLower(ddl))
	return ddl
}

func TestAutoMigrate_ForeignKeyDirection(t *testing.T) {
	_, db := newTestRepo(t)

	// 被引用方不应持有外键
	for _, table := range []string{"time_slots", "subjects"} {
		if ddl := tableSQL(t, db, table); strings.Contains(ddl, "references") {
			t.Errorf("%s 不应引用其它表，实际: %s", table, ddl)
		}
	}
	if ddl := tableSQL(t, db, "program_subjects"); !strings.Contains(ddl, "references subjects(subject_code)") {
		t.Errorf("program_subjects.subject_code 应引用 subjects，实际: %s", ddl)
	}

	// 先写时段、后写科目均不应触发外键错误
	if err := db.Create(&model.TimeSlot{
		SlotID: "1-2567-MON1", AcademicYear: 2567, Semester: 1, DayOfWeek: "MON", Period: 1,
		StartTime: "08:30", EndTime: "09:20", BreakType: model.BreakNone,
	}).Error; err != nil {
		t.Errorf("写入时段失败: %v", err)
	}
	if err := db.Create(&model.Subject{SubjectCode: "MA101", Name: "คณิตศาสตร์", LearningArea: "MATH"}).Error; err != nil {
		t.Errorf("写入科目失败: %v", err)
	}
}
