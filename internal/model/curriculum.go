package model

// 课程结构只读模型，由教务模块维护

// SubjectCategory 课程类别
type SubjectCategory string

const (
	SubjectCategoryCore       SubjectCategory = "CORE"
	SubjectCategoryAdditional SubjectCategory = "ADDITIONAL"
	SubjectCategoryActivity   SubjectCategory = "ACTIVITY"
)

// Program 培养方案表 — 对应 programs
type Program struct {
	ProgramID string `gorm:"type:varchar(32);primaryKey"  json:"program_id"`
	Name      string `gorm:"type:varchar(128);not null"   json:"name"`
	Year      int    `gorm:"not null"                     json:"year"`
	Track     string `gorm:"type:varchar(32)"             json:"track"`
	IsActive  bool   `gorm:"not null;default:true"        json:"is_active"`
	BaseModel

	// 关联
	Subjects []ProgramSubject `gorm:"foreignKey:ProgramID;references:ProgramID" json:"subjects,omitempty"`
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// ProgramSubject 培养方案课程表 — 对应 program_subjects
type ProgramSubject struct {
	ProgramID   string          `gorm:"type:varchar(32);primaryKey"             json:"program_id"`
	SubjectCode string          `gorm:"type:varchar(16);primaryKey"             json:"subject_code"`
	Category    SubjectCategory `gorm:"type:varchar(16);not null;default:'CORE'" json:"category"`
	MinCredits  float64         `gorm:"not null;default:0"                      json:"min_credits"`
	IsMandatory bool            `gorm:"not null;default:true"                   json:"is_mandatory"`

	// 关联（belongs-to，外键在 program_subjects.subject_code）
	Subject *Subject `gorm:"foreignKey:SubjectCode" json:"subject,omitempty"`
}

// TableName 指定表名
func (ProgramSubject) TableName() string { return "program_subjects" }

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectCode  string `gorm:"type:varchar(16);primaryKey" json:"subject_code"`
	Name         string `gorm:"type:varchar(128);not null"  json:"name"`
	LearningArea string `gorm:"type:varchar(32)"            json:"learning_area"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// GradeLevel 班级表 — 对应 grade_levels
// Year 为年级（1-6），Number 为班号
type GradeLevel struct {
	GradeID   string  `gorm:"type:varchar(16);primaryKey" json:"grade_id"`
	Year      int     `gorm:"not null"                    json:"year"`
	Number    int     `gorm:"not null"                    json:"number"`
	ProgramID *string `gorm:"type:varchar(32)"            json:"program_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (GradeLevel) TableName() string { return "grade_levels" }

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID string `gorm:"type:varchar(16);primaryKey" json:"room_id"`
	Name   string `gorm:"type:varchar(64);not null"   json:"name"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
