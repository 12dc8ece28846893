package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ShowCmd 查看学期配置
func ShowCmd(flags *globalFlags) *cobra.Command {
	var year, semester int

	cmd := &cobra.Command{
		Use:   "show [term-id]",
		Short: "列出全部学期，或查看指定学期详情",
		Example: `  termctl show
  termctl show 1-2567
  termctl show --year 2567 --semester 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case len(args) == 1:
				term, err := a.svc.TermConfig.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				printTermDetail(out, term)
				return nil
			case year != 0:
				term, err := a.svc.TermConfig.GetByTerm(ctx, year, semester)
				if err != nil {
					return err
				}
				printTermDetail(out, term)
				return nil
			}

			terms, err := a.svc.TermConfig.List(ctx)
			if err != nil {
				return err
			}
			if len(terms) == 0 {
				fmt.Fprintln(out, "暂无学期配置")
				return nil
			}
			for i := range terms {
				printTermLine(out, &terms[i])
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&year, "year", 0, "按学年查询（需配合 --semester）")
	cmd.Flags().IntVar(&semester, "semester", 1, "学期 (1|2)")
	return cmd
}
