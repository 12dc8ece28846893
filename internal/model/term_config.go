package model

import (
	"time"

	"gorm.io/datatypes"
)

// TermStatus 学期配置状态
type TermStatus string

const (
	TermStatusDraft     TermStatus = "DRAFT"
	TermStatusPublished TermStatus = "PUBLISHED"
	TermStatusLocked    TermStatus = "LOCKED"
	TermStatusArchived  TermStatus = "ARCHIVED"
)

// IsValid 是否为已知状态
func (s TermStatus) IsValid() bool {
	switch s {
	case TermStatusDraft, TermStatusPublished, TermStatusLocked, TermStatusArchived:
		return true
	default:
		return false
	}
}

func (s TermStatus) String() string { return string(s) }

// TermConfig 学期配置表 — 对应 term_configs
// 每个 (学年, 学期) 至多一行
type TermConfig struct {
	TermID       string                            `gorm:"type:varchar(16);primaryKey"                                    json:"term_id"`
	AcademicYear int                               `gorm:"not null;uniqueIndex:uk_term_configs_year_semester"             json:"academic_year"`
	Semester     int                               `gorm:"type:smallint;not null;uniqueIndex:uk_term_configs_year_semester" json:"semester"`
	Parameters   datatypes.JSONType[TermParameters] `gorm:"not null"                                                       json:"parameters"`
	Status       TermStatus                        `gorm:"type:varchar(16);not null;default:'DRAFT'"                      json:"status"`
	Completeness int                               `gorm:"not null;default:0"                                             json:"completeness"`
	PublishedAt  *time.Time                        `                                                                      json:"published_at,omitempty"`
	Version      int                               `gorm:"not null;default:1"                                             json:"version"`
	BaseModel
}

// TableName 指定表名
func (TermConfig) TableName() string { return "term_configs" }
