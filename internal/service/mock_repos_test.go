package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/errors"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
)

// ── Mock TermConfigRepository ──

type mockTermConfigRepo struct {
	configs map[string]*model.TermConfig
	// counts 完整度统计结果，未设置时按其它 mock 计算时段数
	counts *repository.EntityCounts
	slots  *mockTimeSlotRepo
}

func newMockTermConfigRepo(slots *mockTimeSlotRepo) *mockTermConfigRepo {
	return &mockTermConfigRepo{configs: make(map[string]*model.TermConfig), slots: slots}
}

func (m *mockTermConfigRepo) Create(_ context.Context, cfg *model.TermConfig) error {
	for _, c := range m.configs {
		if c.AcademicYear == cfg.AcademicYear && c.Semester == cfg.Semester {
			return gorm.ErrDuplicatedKey
		}
	}
	m.configs[cfg.TermID] = cfg
	return nil
}

func (m *mockTermConfigRepo) GetByID(_ context.Context, termID string) (*model.TermConfig, error) {
	if c, ok := m.configs[termID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermConfigRepo) GetByTerm(_ context.Context, academicYear, semester int) (*model.TermConfig, error) {
	for _, c := range m.configs {
		if c.AcademicYear == academicYear && c.Semester == semester {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermConfigRepo) List(_ context.Context) ([]model.TermConfig, error) {
	var result []model.TermConfig
	for _, c := range m.configs {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TermID < result[j].TermID })
	return result, nil
}

func (m *mockTermConfigRepo) updateVersioned(cfg *model.TermConfig) error {
	stored, ok := m.configs[cfg.TermID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != cfg.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cfg.Version++
	cp := *cfg
	m.configs[cfg.TermID] = &cp
	return nil
}

func (m *mockTermConfigRepo) UpdateStatus(_ context.Context, cfg *model.TermConfig) error {
	return m.updateVersioned(cfg)
}

func (m *mockTermConfigRepo) UpdateParameters(_ context.Context, cfg *model.TermConfig) error {
	return m.updateVersioned(cfg)
}

func (m *mockTermConfigRepo) UpdateCompleteness(_ context.Context, termID string, completeness int) error {
	c, ok := m.configs[termID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Completeness = completeness
	return nil
}

func (m *mockTermConfigRepo) Delete(_ context.Context, termID string) error {
	delete(m.configs, termID)
	return nil
}

func (m *mockTermConfigRepo) CountEntitiesForCompleteness(ctx context.Context, academicYear, semester int) (*repository.EntityCounts, error) {
	if m.counts != nil {
		cp := *m.counts
		return &cp, nil
	}
	n, _ := m.slots.CountByTerm(ctx, academicYear, semester)
	return &repository.EntityCounts{SlotCount: n}, nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	slots map[string]model.TimeSlot
}

func newMockTimeSlotRepo() *mockTimeSlotRepo {
	return &mockTimeSlotRepo{slots: make(map[string]model.TimeSlot)}
}

func (m *mockTimeSlotRepo) ListByTerm(_ context.Context, academicYear, semester int) ([]model.TimeSlot, error) {
	var result []model.TimeSlot
	for _, s := range m.slots {
		if s.AcademicYear == academicYear && s.Semester == semester {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SlotID < result[j].SlotID })
	return result, nil
}

func (m *mockTimeSlotRepo) CountByTerm(ctx context.Context, academicYear, semester int) (int64, error) {
	list, _ := m.ListByTerm(ctx, academicYear, semester)
	return int64(len(list)), nil
}

func (m *mockTimeSlotRepo) CreateBatchSkipDuplicates(_ context.Context, slots []model.TimeSlot) (int64, error) {
	var n int64
	for _, s := range slots {
		if _, ok := m.slots[s.SlotID]; ok {
			continue
		}
		m.slots[s.SlotID] = s
		n++
	}
	return n, nil
}

func (m *mockTimeSlotRepo) DeleteByTerm(_ context.Context, academicYear, semester int) (int64, error) {
	var n int64
	for id, s := range m.slots {
		if s.AcademicYear == academicYear && s.Semester == semester {
			delete(m.slots, id)
			n++
		}
	}
	return n, nil
}

// ── Mock TeachingAssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]model.TeachingAssignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]model.TeachingAssignment)}
}

func (m *mockAssignmentRepo) ListByTerm(_ context.Context, academicYear, semester int) ([]model.TeachingAssignment, error) {
	var result []model.TeachingAssignment
	for _, a := range m.assignments {
		if a.AcademicYear == academicYear && a.Semester == semester {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) CreateBatchSkipDuplicates(_ context.Context, assignments []model.TeachingAssignment) (int64, error) {
	var n int64
	for _, a := range assignments {
		m.assignments[a.AssignmentID] = a
		n++
	}
	return n, nil
}

func (m *mockAssignmentRepo) DeleteByTerm(_ context.Context, academicYear, semester int) (int64, error) {
	var n int64
	for id, a := range m.assignments {
		if a.AcademicYear == academicYear && a.Semester == semester {
			delete(m.assignments, id)
			n++
		}
	}
	return n, nil
}

// ── Mock SchedulePlacementRepository ──

type mockPlacementRepo struct {
	mu         sync.Mutex
	placements map[string]model.SchedulePlacement
	slots      *mockTimeSlotRepo
}

func newMockPlacementRepo(slots *mockTimeSlotRepo) *mockPlacementRepo {
	return &mockPlacementRepo{placements: make(map[string]model.SchedulePlacement), slots: slots}
}

func (m *mockPlacementRepo) inTerm(p model.SchedulePlacement, academicYear, semester int) bool {
	s, ok := m.slots.slots[p.SlotID]
	return ok && s.AcademicYear == academicYear && s.Semester == semester
}

func (m *mockPlacementRepo) ListByTerm(_ context.Context, academicYear, semester int, locked *bool) ([]model.SchedulePlacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SchedulePlacement
	for _, p := range m.placements {
		if !m.inTerm(p, academicYear, semester) {
			continue
		}
		if locked != nil && p.Locked != *locked {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClassID < result[j].ClassID })
	return result, nil
}

func (m *mockPlacementRepo) CreateSkipDuplicate(_ context.Context, placement *model.SchedulePlacement) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.placements[placement.ClassID]; ok {
		return false, nil
	}
	m.placements[placement.ClassID] = *placement
	return true, nil
}

func (m *mockPlacementRepo) DeleteByTerm(_ context.Context, academicYear, semester int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, p := range m.placements {
		if m.inTerm(p, academicYear, semester) {
			delete(m.placements, id)
			n++
		}
	}
	return n, nil
}

// ── Mock CurriculumRepository ──

type mockCurriculumRepo struct {
	grades   []model.GradeLevel
	programs []model.Program
}

func (m *mockCurriculumRepo) ListGradeLevels(_ context.Context) ([]model.GradeLevel, error) {
	return m.grades, nil
}

func (m *mockCurriculumRepo) ListActivePrograms(_ context.Context) ([]model.Program, error) {
	return m.programs, nil
}

// ── Mock ReadinessCache ──

type mockReadinessCache struct {
	reports     map[string]*ReadinessReport
	invalidated []string
}

func newMockReadinessCache() *mockReadinessCache {
	return &mockReadinessCache{reports: make(map[string]*ReadinessReport)}
}

func (m *mockReadinessCache) GetReadiness(_ context.Context, termID string, dest interface{}) (bool, error) {
	r, ok := m.reports[termID]
	if !ok {
		return false, nil
	}
	*dest.(*ReadinessReport) = *r
	return true, nil
}

func (m *mockReadinessCache) SetReadiness(_ context.Context, termID string, report interface{}, _ time.Duration) error {
	m.reports[termID] = report.(*ReadinessReport)
	return nil
}

func (m *mockReadinessCache) InvalidateReadiness(_ context.Context, termIDs ...string) error {
	for _, id := range termIDs {
		delete(m.reports, id)
		m.invalidated = append(m.invalidated, id)
	}
	return nil
}

// ── 测试装配 ──

type mockRepos struct {
	termConfig *mockTermConfigRepo
	slots      *mockTimeSlotRepo
	assign     *mockAssignmentRepo
	placement  *mockPlacementRepo
	curriculum *mockCurriculumRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	slots := newMockTimeSlotRepo()
	m := &mockRepos{
		termConfig: newMockTermConfigRepo(slots),
		slots:      slots,
		assign:     newMockAssignmentRepo(),
		placement:  newMockPlacementRepo(slots),
		curriculum: &mockCurriculumRepo{},
	}
	repo := &repository.Repository{
		TermConfig: m.termConfig,
		TimeSlot:   m.slots,
		Assignment: m.assign,
		Placement:  m.placement,
		Curriculum: m.curriculum,
	}
	return repo, m
}
