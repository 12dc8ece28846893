package service

import (
	"go.uber.org/zap"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/config"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	TermConfig TermConfigService
}

// NewService 创建 Service 聚合；cache 为 nil 时不缓存就绪报告
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache ReadinessCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		TermConfig: NewTermConfigService(repo, TermConfigOptions{
			Checker:         NewReadinessChecker(DefaultGradeCompletionCalculator{}, MoECreditValidator{}),
			Cache:           cache,
			CacheTTL:        cfg.Readiness.CacheTTL,
			CopyConcurrency: cfg.Copy.Concurrency,
		}, logger),
	}
}
