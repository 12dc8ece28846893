package model

// TeachingAssignment 教学任务表 — 对应 teaching_assignments
// (教师, 年级, 科目, 学年, 学期) 唯一
type TeachingAssignment struct {
	AssignmentID string `gorm:"type:varchar(36);primaryKey"                                 json:"assignment_id"`
	TeacherID    string `gorm:"type:varchar(32);not null;uniqueIndex:uk_assignment_natural" json:"teacher_id"`
	GradeID      string `gorm:"type:varchar(16);not null;uniqueIndex:uk_assignment_natural" json:"grade_id"`
	SubjectCode  string `gorm:"type:varchar(16);not null;uniqueIndex:uk_assignment_natural" json:"subject_code"`
	TeachHours   int    `gorm:"not null;default:0"                                          json:"teach_hours"`
	AcademicYear int    `gorm:"not null;uniqueIndex:uk_assignment_natural"                  json:"academic_year"`
	Semester     int    `gorm:"type:smallint;not null;uniqueIndex:uk_assignment_natural"    json:"semester"`
	BaseModel
}

// TableName 指定表名
func (TeachingAssignment) TableName() string { return "teaching_assignments" }
