package dto

import "github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"

// ── 学期配置模块 DTO ──

// CreateTermConfigRequest 创建学期配置请求
type CreateTermConfigRequest struct {
	AcademicYear int                  `json:"academic_year" binding:"required,min=2500,max=9999"`
	Semester     int                  `json:"semester"      binding:"required,oneof=1 2"`
	Parameters   model.TermParameters `json:"parameters"`
}

// UpdateParametersRequest 修改结构参数请求（会重建时段并清空教学任务）
type UpdateParametersRequest struct {
	Parameters model.TermParameters `json:"parameters"`
	Confirm    bool                 `json:"confirm"`
}

// UpdateStatusRequest 状态流转请求
type UpdateStatusRequest struct {
	Status         string `json:"status"          binding:"required,oneof=DRAFT PUBLISHED LOCKED ARCHIVED"`
	OverrideReason string `json:"override_reason" binding:"omitempty,max=500"`
}

// CopyTermRequest 跨学期复制请求
type CopyTermRequest struct {
	From      string `json:"from"      binding:"required"`
	To        string `json:"to"        binding:"required"`
	Assign    bool   `json:"assign"`
	Lock      bool   `json:"lock"`
	Timetable bool   `json:"timetable"`
}

// TermQuery 按学年学期查询
type TermQuery struct {
	AcademicYear int `form:"academic_year" binding:"omitempty,min=2500,max=9999"`
	Semester     int `form:"semester"      binding:"omitempty,oneof=1 2"`
}

// TermConfigResponse 学期配置响应
type TermConfigResponse struct {
	TermID       string               `json:"term_id"`
	AcademicYear int                  `json:"academic_year"`
	Semester     int                  `json:"semester"`
	Parameters   model.TermParameters `json:"parameters"`
	Status       string               `json:"status"`
	Completeness int                  `json:"completeness"`
	PublishedAt  string               `json:"published_at,omitempty"`
	Version      int                  `json:"version"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

// CompletenessResponse 完整度重算响应
type CompletenessResponse struct {
	TermID       string            `json:"term_id"`
	Completeness int               `json:"completeness"`
	Counts       CompletenessCount `json:"counts"`
}

// CompletenessCount 完整度计数明细
type CompletenessCount struct {
	Slots    int64 `json:"slots"`
	Teachers int64 `json:"teachers"`
	Subjects int64 `json:"subjects"`
	Classes  int64 `json:"classes"`
	Rooms    int64 `json:"rooms"`
}

// RegenerateResponse 参数修改后时段重建结果
type RegenerateResponse struct {
	Config             TermConfigResponse `json:"config"`
	SlotsGenerated     int                `json:"slots_generated"`
	AssignmentsRemoved int64              `json:"assignments_removed"`
	PlacementsRemoved  int64              `json:"placements_removed"`
}
