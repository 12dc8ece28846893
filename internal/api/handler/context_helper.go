package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/api/middleware"
)

// GetOperatorID 从 Gin 上下文中提取操作人标识
// Operator 中间件未挂载时回退为请求头，仍为空则记为 system
func GetOperatorID(c *gin.Context) string {
	if v := c.GetString(middleware.OperatorIDKey); v != "" {
		return v
	}
	if v := c.GetHeader("X-Operator-ID"); v != "" {
		return v
	}
	return middleware.DefaultOperatorID
}
