package service

import "github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"

// 完整度权重，合计 100
const (
	weightSlots    = 30
	weightTeachers = 20
	weightSubjects = 20
	weightClasses  = 20
	weightRooms    = 10
)

// PublishCompletenessThreshold 发布所需的最低完整度（时段已生成）
const PublishCompletenessThreshold = weightSlots

// CompletenessSignals 五类实体是否已配置
type CompletenessSignals struct {
	Slots    bool
	Teachers bool
	Subjects bool
	Classes  bool
	Rooms    bool
}

// SignalsFromCounts 由实体数量推导配置信号
func SignalsFromCounts(c *repository.EntityCounts) CompletenessSignals {
	return CompletenessSignals{
		Slots:    c.SlotCount > 0,
		Teachers: c.TeacherCount > 0,
		Subjects: c.SubjectCount > 0,
		Classes:  c.ClassCount > 0,
		Rooms:    c.RoomCount > 0,
	}
}

// ScoreCompleteness 按固定权重累加已配置项，结果在 0-100 之间
func ScoreCompleteness(s CompletenessSignals) int {
	score := 0
	if s.Slots {
		score += weightSlots
	}
	if s.Teachers {
		score += weightTeachers
	}
	if s.Subjects {
		score += weightSubjects
	}
	if s.Classes {
		score += weightClasses
	}
	if s.Rooms {
		score += weightRooms
	}
	return score
}
