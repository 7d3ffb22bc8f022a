package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	flagFailuresProject string
	flagFailuresOutput  string
)

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List failing run cases across all runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagFailuresProject)
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
		items, err := svc.Failures(ctx, project)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d failing run case(s)\n", len(items))
		if strings.EqualFold(flagFailuresOutput, "json") {
			return printJSON(items)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"RUN", "CASE", "PRIORITY", "COMMENT", "EXECUTED"})
		for _, f := range items {
			executed := ""
			if f.Executed != nil {
				executed = f.Executed.Format(time.RFC3339)
			}
			table.Append([]string{f.RunName, f.CaseTitle, f.Priority, f.Comment, executed})
		}
		table.Render()
		return nil
	},
}

func init() {
	failuresCmd.Flags().StringVar(&flagFailuresProject, "project", "", "Project id (required)")
	failuresCmd.Flags().StringVar(&flagFailuresOutput, "output", "table", "Output format: table or json")
}
