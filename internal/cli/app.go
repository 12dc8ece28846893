package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/config"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/repository"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/database"
	applogger "github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/logger"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/redis"
)

// globalFlags 所有子命令共享的持久化参数
type globalFlags struct {
	configPath string
	sqlitePath string
	operator   string
	logLevel   string
}

// app 单次命令执行所需的依赖
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	svc    *service.Service
	logger *zap.Logger
	rdb    *redis.Client
}

// openApp 按参数装配依赖
// 指定 --sqlite 时使用本地文件库并自动建表，否则按配置连接 PostgreSQL
func openApp(flags *globalFlags) (*app, error) {
	logger, err := applogger.NewCLILogger(flags.logLevel)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if flags.sqlitePath != "" {
		a.db, err = database.NewSQLite(flags.sqlitePath, "silent")
		if err != nil {
			return nil, err
		}
		if err := repository.AutoMigrate(a.db); err != nil {
			a.Close()
			return nil, fmt.Errorf("建表失败: %w", err)
		}
	} else {
		a.db, err = database.NewDB(&cfg.Database, "error", logger)
		if err != nil {
			return nil, err
		}
		// 与服务端共用 Redis 时需同步清除就绪缓存
		if rdb, err := redis.NewClient(&cfg.Redis, logger); err == nil {
			a.rdb = rdb
		} else {
			logger.Debug("Redis 不可用，跳过就绪缓存", zap.Error(err))
		}
	}

	var cache service.ReadinessCache
	if a.rdb != nil {
		cache = a.rdb
	}
	a.svc = service.NewService(cfg, repository.NewRepository(a.db), cache, logger)
	return a, nil
}

// Close 释放数据库与 Redis 连接
func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	a.logger.Sync()
}

// withApp 包装 RunE：装配依赖、执行、释放
func withApp(flags *globalFlags, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(flags)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}
