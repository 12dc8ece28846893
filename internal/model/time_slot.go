package model

// BreakType 课间休息类型
type BreakType string

const (
	BreakNone   BreakType = "NOT_BREAK"
	BreakJunior BreakType = "BREAK_JUNIOR"
	BreakSenior BreakType = "BREAK_SENIOR"
	BreakBoth   BreakType = "BREAK_BOTH"
)

// TimeSlot 课时时段表 — 对应 time_slots
// SlotID 内嵌学期标识，如 "1-2567-MON1"
type TimeSlot struct {
	SlotID       string    `gorm:"type:varchar(32);primaryKey"                       json:"slot_id"`
	AcademicYear int       `gorm:"not null;index:idx_time_slots_term"                json:"academic_year"`
	Semester     int       `gorm:"type:smallint;not null;index:idx_time_slots_term"  json:"semester"`
	DayOfWeek    string    `gorm:"type:varchar(3);not null"                          json:"day_of_week"`
	Period       int       `gorm:"not null"                                          json:"period"`
	StartTime    string    `gorm:"type:varchar(5);not null"                          json:"start_time"`
	EndTime      string    `gorm:"type:varchar(5);not null"                          json:"end_time"`
	BreakType    BreakType `gorm:"type:varchar(16);not null;default:'NOT_BREAK'"     json:"break_type"`
	BaseModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }
