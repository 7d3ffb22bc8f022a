package run

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
	flagListProject string
	flagListLimit   int
	flagListOffset  int
	flagListOutput  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the runs of a project, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagListProject)
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
		items, err := svc.ListRuns(ctx, project, flagListLimit, flagListOffset)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d run(s)\n", len(items))
		if strings.EqualFold(flagListOutput, "json") {
			out := make([]map[string]any, 0, len(items))
			for _, r := range items {
				out = append(out, map[string]any{
					"id":      r.ID,
					"name":    r.Name,
					"release": r.ReleaseVersion,
					"status":  r.Status,
					"created": r.Created,
				})
			}
			return printJSON(out)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "NAME", "RELEASE", "STATUS", "CREATED"})
		for _, r := range items {
			table.Append([]string{r.ID, r.Name, r.ReleaseVersion, r.Status, r.Created.Format(time.RFC3339)})
		}
		table.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListProject, "project", "", "Project id (required)")
	listCmd.Flags().IntVar(&flagListLimit, "limit", 100, "Maximum rows")
	listCmd.Flags().IntVar(&flagListOffset, "offset", 0, "Rows to skip")
	listCmd.Flags().StringVar(&flagListOutput, "output", "table", "Output format: table or json")
}
