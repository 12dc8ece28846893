package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/dto"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"
)

// StatusCmd 学期状态流转
func StatusCmd(flags *globalFlags) *cobra.Command {
	var override string

	cmd := &cobra.Command{
		Use:   "status <term-id> <DRAFT|PUBLISHED|LOCKED|ARCHIVED>",
		Short: "变更学期状态",
		Long: `变更学期状态。DRAFT → PUBLISHED 要求完整度不低于 30% 且发布就绪检查通过，
或通过 --override 提供人工覆盖原因。`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			term, err := a.svc.TermConfig.UpdateStatus(cmd.Context(), args[0], &dto.UpdateStatusRequest{
				Status:         strings.ToUpper(args[1]),
				OverrideReason: override,
			}, flags.operator)

			var notReady *service.NotPublishReadyError
			if errors.As(err, &notReady) {
				fmt.Fprintf(out, "%s 未满足发布条件", errColor.Sprint(args[0]))
				if notReady.Status != "" {
					fmt.Fprintf(out, " (%s)", readinessLabel(notReady.Status))
				}
				fmt.Fprintln(out)
				for _, issue := range notReady.Issues {
					fmt.Fprintf(out, "  %s %s\n", errColor.Sprint("✗"), issue)
				}
				return err
			}
			if err != nil {
				return err
			}

			printTermLine(out, term)
			return nil
		}),
	}

	cmd.Flags().StringVar(&override, "override", "", "人工覆盖发布检查的原因")
	return cmd
}
