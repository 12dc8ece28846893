package cli

import (
	"github.com/spf13/cobra"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/api/middleware"
)

// NewRootCmd 创建 termctl 根命令
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "termctl",
		Short: "学期配置管理工具",
		Long: `termctl 直接操作学期配置库：创建学期、状态流转、发布就绪检查、
完整度重算以及跨学期复制。

默认读取 ./config/config.yaml 与 TERMCFG_ 前缀的环境变量连接 PostgreSQL；
指定 --sqlite 时使用本地 SQLite 文件，便于演练。`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "配置文件路径")
	pf.StringVar(&flags.sqlitePath, "sqlite", "", "使用本地 SQLite 文件代替 PostgreSQL")
	pf.StringVar(&flags.operator, "operator", middleware.DefaultOperatorID, "审计字段中的操作人标识")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "日志级别 (debug|info|warn|error)")

	root.AddCommand(CreateCmd(flags))
	root.AddCommand(ShowCmd(flags))
	root.AddCommand(StatusCmd(flags))
	root.AddCommand(ReadinessCmd(flags))
	root.AddCommand(CompletenessCmd(flags))
	root.AddCommand(CopyCmd(flags))
	root.AddCommand(MigrateCmd(flags))

	return root
}
