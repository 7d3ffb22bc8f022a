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
	flagPrioritiesProject string
	flagPrioritiesOutput  string
)

var prioritiesCmd = &cobra.Command{
	Use:   "priorities",
	Short: "Count cases by priority, highest count first",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagPrioritiesProject)
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
		items, err := svc.PriorityBreakdown(ctx, project)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d priority group(s)\n", len(items))
		if strings.EqualFold(flagPrioritiesOutput, "json") {
			return printJSON(items)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"PRIORITY", "CASES"})
		for _, p := range items {
			label := p.Priority
			if label == "" {
				label = "(none)"
			}
			table.Append([]string{label, strconv.Itoa(p.Count)})
		}
		table.Render()
		return nil
	},
}

func init() {
	prioritiesCmd.Flags().StringVar(&flagPrioritiesProject, "project", "", "Project id (required)")
	prioritiesCmd.Flags().StringVar(&flagPrioritiesOutput, "output", "table", "Output format: table or json")
}
