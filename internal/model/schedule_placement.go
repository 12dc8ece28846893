package model

// SchedulePlacement 排课条目表 — 对应 schedule_placements
// ClassID 与 SlotID 均内嵌学期标识
type SchedulePlacement struct {
	ClassID     string  `gorm:"type:varchar(64);primaryKey"            json:"class_id"`
	SlotID      string  `gorm:"type:varchar(32);not null;index"        json:"slot_id"`
	SubjectCode string  `gorm:"type:varchar(16);not null"              json:"subject_code"`
	RoomID      *string `gorm:"type:varchar(16)"                       json:"room_id,omitempty"`
	GradeID     string  `gorm:"type:varchar(16);not null"              json:"grade_id"`
	Locked      bool    `gorm:"not null;default:false"                 json:"locked"`
	BaseModel

	// slot_id 外键由 SQL 迁移维护，模型不声明关联

	// AssignmentIDs 关联的教学任务，经 placement_assignments 读写
	AssignmentIDs []string `gorm:"-" json:"assignment_ids,omitempty"`
}

// TableName 指定表名
func (SchedulePlacement) TableName() string { return "schedule_placements" }

// PlacementAssignment 排课条目与教学任务关联表 — 对应 placement_assignments
type PlacementAssignment struct {
	ClassID      string `gorm:"type:varchar(64);primaryKey" json:"class_id"`
	AssignmentID string `gorm:"type:varchar(36);primaryKey" json:"assignment_id"`
}

// TableName 指定表名
func (PlacementAssignment) TableName() string { return "placement_assignments" }
