package result

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var flagGetRunCase string

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a run case with its frozen steps and saved result",
	RunE: func(cmd *cobra.Command, args []string) error {
		runCase := strings.TrimSpace(flagGetRunCase)
		if runCase == "" {
			return errors.New("--run-case is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		ex, err := svc.GetExecution(ctx, runCase)
		if err != nil {
			return err
		}
		if ex.Result == nil {
			fmt.Fprintf(os.Stderr, "run case %q (v%d) has no result yet\n", ex.RunCase.CaseTitle, ex.RunCase.VersionNo)
		} else {
			fmt.Fprintf(os.Stderr, "run case %q (v%d) overall=%s\n", ex.RunCase.CaseTitle, ex.RunCase.VersionNo, ex.Result.Status)
		}
		out := map[string]any{
			"run_case_id": ex.RunCase.ID,
			"case_id":     ex.RunCase.CaseID,
			"title":       ex.RunCase.CaseTitle,
			"version_no":  ex.RunCase.VersionNo,
			"status":      ex.RunCase.Status,
			"steps":       ex.Steps,
		}
		if ex.Result != nil {
			out["result"] = map[string]any{
				"id":           ex.Result.ID,
				"status":       ex.Result.Status,
				"comment":      ex.Result.Comment,
				"executed":     ex.Result.Executed,
				"step_results": ex.Result.StepResults,
			}
		}
		return printJSON(out)
	},
}

func init() {
	getCmd.Flags().StringVar(&flagGetRunCase, "run-case", "", "Run case id (required)")
}
