package suite

import (
	"context"
	"encoding/json"
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
	flagListOutput  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the suites of a project",
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
		items, err := svc.ListSuites(ctx, project)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d suite(s)\n", len(items))
		if strings.EqualFold(flagListOutput, "json") {
			out := make([]map[string]any, 0, len(items))
			for _, s := range items {
				out = append(out, map[string]any{"id": s.ID, "name": s.Name, "created": s.Created})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "NAME", "CREATED"})
		for _, s := range items {
			table.Append([]string{s.ID, s.Name, s.Created.Format(time.RFC3339)})
		}
		table.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListProject, "project", "", "Project id (required)")
	listCmd.Flags().StringVar(&flagListOutput, "output", "table", "Output format: table or json")
}
