package cases

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
	flagListSuite   string
	flagListLimit   int
	flagListOffset  int
	flagListOutput  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cases of a project",
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
		items, err := svc.ListCases(ctx, project, strings.TrimSpace(flagListSuite), flagListLimit, flagListOffset)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d case(s)\n", len(items))
		if strings.EqualFold(flagListOutput, "json") {
			out := make([]map[string]any, 0, len(items))
			for _, c := range items {
				out = append(out, map[string]any{
					"id":       c.ID,
					"title":    c.Title,
					"priority": c.Priority,
					"tags":     c.Tags,
					"updated":  c.Updated,
				})
			}
			return printJSON(out)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "TITLE", "PRIORITY", "TAGS", "UPDATED"})
		for _, c := range items {
			table.Append([]string{
				c.ID,
				c.Title,
				c.Priority,
				strings.Join(c.Tags, ","),
				c.Updated.Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListProject, "project", "", "Project id (required)")
	listCmd.Flags().StringVar(&flagListSuite, "suite", "", "Filter by suite id")
	listCmd.Flags().IntVar(&flagListLimit, "limit", 100, "Maximum rows")
	listCmd.Flags().IntVar(&flagListOffset, "offset", 0, "Rows to skip")
	listCmd.Flags().StringVar(&flagListOutput, "output", "table", "Output format: table or json")
}
