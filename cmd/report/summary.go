package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	flagSummaryProject string
	flagSummaryOutput  string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count run cases by status and report the completion rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagSummaryProject)
		if project == "" {
			return errors.New("--project is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		sum, err := svc.Summary(ctx, project)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d run case(s), %d%% complete\n", sum.Total, sum.CompletionRate)
		if strings.EqualFold(flagSummaryOutput, "json") {
			return printJSON(sum)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"TOTAL", "UNTESTED", "PASS", "FAIL", "BLOCKED", "COMPLETE"})
		table.Append([]string{
			strconv.Itoa(sum.Total),
			strconv.Itoa(sum.Untested),
			strconv.Itoa(sum.Pass),
			strconv.Itoa(sum.Fail),
			strconv.Itoa(sum.Blocked),
			strconv.Itoa(sum.CompletionRate) + "%",
		})
		table.Render()
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&flagSummaryProject, "project", "", "Project id (required)")
	summaryCmd.Flags().StringVar(&flagSummaryOutput, "output", "table", "Output format: table or json")
}
