package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CompletenessCmd 重算配置完整度
func CompletenessCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "completeness <term-id>",
		Short: "重算并写回学期配置完整度",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := a.svc.TermConfig.RecalculateCompleteness(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s 完整度 %s\n", res.TermID, okColor.Sprintf("%d%%", res.Completeness))
			fmt.Fprintf(out, "  时段 %d  教师 %d  科目 %d  班级 %d  教室 %d\n",
				res.Counts.Slots, res.Counts.Teachers, res.Counts.Subjects, res.Counts.Classes, res.Counts.Rooms)
			return nil
		}),
	}
}
