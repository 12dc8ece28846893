package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/database"
)

// MigrateCmd 数据库迁移（仅 PostgreSQL）
func MigrateCmd(flags *globalFlags) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "执行或回退 PostgreSQL 迁移",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if flags.sqlitePath != "" {
				return errors.New("SQLite 模式启动时已自动建表，无需迁移")
			}
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}

			switch args[0] {
			case "up":
				err = database.RunMigrations(sqlDB, a.logger)
			case "down":
				err = database.RollbackMigrations(sqlDB, steps, a.logger)
			default:
				return fmt.Errorf("未知迁移方向 %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("迁移完成"))
			return nil
		}),
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "回退的版本数")
	return cmd
}
