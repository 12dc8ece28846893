package cli

import (
	"github.com/spf13/cobra"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/dto"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"
)

// CopyCmd 跨学期复制
func CopyCmd(flags *globalFlags) *cobra.Command {
	var (
		from string
		to   string
		opts service.CopyOptions
	)

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "将源学期配置复制到新学期",
		Long: `在单个事务内将源学期的配置与时段复制到目标学期，可选复制教学任务、
锁定课与课表。目标学期必须不存在；复制锁定课或课表时必须同时复制教学任务。`,
		Example: `  termctl copy --from 1-2567 --to 2-2567 --assign --lock`,
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			summary, err := a.svc.TermConfig.Copy(cmd.Context(), &dto.CopyTermRequest{
				From:      from,
				To:        to,
				Assign:    opts.Assign,
				Lock:      opts.Lock,
				Timetable: opts.Timetable,
			}, flags.operator)
			if err != nil {
				return err
			}
			printCopySummary(cmd.OutOrStdout(), summary, opts)
			return nil
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "源学期标识，如 1-2567")
	cmd.Flags().StringVar(&to, "to", "", "目标学期标识，如 2-2567")
	cmd.Flags().BoolVar(&opts.Assign, "assign", false, "复制教学任务")
	cmd.Flags().BoolVar(&opts.Lock, "lock", false, "复制锁定课（需 --assign）")
	cmd.Flags().BoolVar(&opts.Timetable, "timetable", false, "复制课表（需 --assign）")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
