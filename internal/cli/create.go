package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/dto"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// defaultParameters 未指定参数文件时使用的常见作息：周一至周五，每日 8 节
func defaultParameters() model.TermParameters {
	return model.TermParameters{
		SchemaVersion:  model.TermParametersSchemaVersion,
		Days:           []string{"MON", "TUE", "WED", "THU", "FRI"},
		StartTime:      "08:30",
		PeriodDuration: 50,
		PeriodsPerDay:  8,
		BreakDuration:  60,
		BreakPeriods:   model.BreakPeriods{Junior: 4, Senior: 5},
	}
}

func readParameters(path string) (model.TermParameters, error) {
	if path == "" {
		return defaultParameters(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.TermParameters{}, fmt.Errorf("读取参数文件失败: %w", err)
	}
	var p model.TermParameters
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.TermParameters{}, fmt.Errorf("解析参数文件失败: %w", err)
	}
	return p, nil
}

// CreateCmd 创建学期配置
func CreateCmd(flags *globalFlags) *cobra.Command {
	var (
		year       int
		semester   int
		paramsFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "创建学期配置并生成时段",
		Example: `  termctl create --year 2567 --semester 1
  termctl create --year 2567 --semester 2 --params params.json`,
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			params, err := readParameters(paramsFile)
			if err != nil {
				return err
			}
			term, err := a.svc.TermConfig.Create(cmd.Context(), &dto.CreateTermConfigRequest{
				AcademicYear: year,
				Semester:     semester,
				Parameters:   params,
			}, flags.operator)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s 已创建\n", okColor.Sprint(term.TermID))
			printTermLine(cmd.OutOrStdout(), term)
			return nil
		}),
	}

	cmd.Flags().IntVar(&year, "year", 0, "学年（佛历，如 2567）")
	cmd.Flags().IntVar(&semester, "semester", 1, "学期 (1|2)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "结构参数 JSON 文件")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
