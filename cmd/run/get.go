package run

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
	flagGetID     string
	flagGetOutput string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a run with its bound cases and their statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(flagGetID)
		if id == "" {
			return errors.New("--id is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		d, err := svc.GetRunDetail(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run %q (%s) with %d case(s)\n", d.Run.Name, d.Run.Status, len(d.Cases))
		if strings.EqualFold(flagGetOutput, "json") {
			cases := make([]map[string]any, 0, len(d.Cases))
			for _, rc := range d.Cases {
				cases = append(cases, map[string]any{
					"run_case_id": rc.ID,
					"case_id":     rc.CaseID,
					"title":       rc.CaseTitle,
					"version_no":  rc.VersionNo,
					"status":      rc.Status,
				})
			}
			return printJSON(map[string]any{
				"id":      d.Run.ID,
				"name":    d.Run.Name,
				"release": d.Run.ReleaseVersion,
				"status":  d.Run.Status,
				"created": d.Run.Created,
				"cases":   cases,
			})
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"RUN CASE", "TITLE", "VERSION", "STATUS"})
		for _, rc := range d.Cases {
			table.Append([]string{rc.ID, rc.CaseTitle, "v" + strconv.Itoa(rc.VersionNo), rc.Status})
		}
		table.Render()
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&flagGetID, "id", "", "Run id (required)")
	getCmd.Flags().StringVar(&flagGetOutput, "output", "table", "Output format: table or json")
}
