package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// 操作人标识由上游认证网关传入，不限定为 UUID
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime"  json:"created_at"`
	CreatedBy *string   `gorm:"type:varchar(64)"         json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"  json:"updated_at"`
	UpdatedBy *string   `gorm:"type:varchar(64)"         json:"updated_by,omitempty"`
}

// Audit 构造创建审计字段
func Audit(operator string) BaseModel {
	if operator == "" {
		return BaseModel{}
	}
	return BaseModel{CreatedBy: &operator, UpdatedBy: &operator}
}
