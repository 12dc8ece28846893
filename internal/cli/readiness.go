package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"
)

// ReadinessCmd 发布就绪检查
func ReadinessCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "readiness <term-id>",
		Short: "检查学期是否满足发布条件",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			report, err := a.svc.TermConfig.CheckReadiness(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReadiness(cmd.OutOrStdout(), args[0], report)
			if strict && report.Status != service.ReadinessReady {
				return fmt.Errorf("%w: %s", service.ErrNotPublishReady, report.Status)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "未就绪时以非零状态退出")
	return cmd
}
