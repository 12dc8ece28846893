package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/response"
)

const (
	// OperatorIDKey 上下文中操作人标识的键
	OperatorIDKey = "operator_id"
	// DefaultOperatorID 未携带操作人头时的审计标识
	DefaultOperatorID = "system"

	operatorIDMaxLen = 64
)

// Operator 操作人中间件
// 认证由上游网关完成，这里只读取 X-Operator-ID 作为审计字段
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Operator-ID")
		if len(id) > operatorIDMaxLen {
			response.BadRequest(c, 10001, "X-Operator-ID 过长")
			c.Abort()
			return
		}
		if id == "" {
			id = DefaultOperatorID
		}
		c.Set(OperatorIDKey, id)
		c.Next()
	}
}
