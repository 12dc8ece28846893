package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/config"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/api/handler"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时写接口不限流
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Operator())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				status = "degraded"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	writeLimit := middleware.RateLimit(limiter, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 学期配置模块
		terms := v1.Group("/terms")
		{
			terms.GET("", h.Term.ListTerms)
			terms.POST("", writeLimit, h.Term.CreateTerm)
			terms.POST("/copy", writeLimit, h.Term.CopyTerm)
			terms.GET("/:id", h.Term.GetTerm)
			terms.DELETE("/:id", writeLimit, h.Term.DeleteTerm)
			terms.PUT("/:id/parameters", writeLimit, h.Term.UpdateParameters)
			terms.PUT("/:id/status", writeLimit, h.Term.UpdateStatus)
			terms.POST("/:id/completeness", writeLimit, h.Term.RecalculateCompleteness)
			terms.GET("/:id/readiness", h.Term.CheckReadiness)
		}
	}

	return r
}
