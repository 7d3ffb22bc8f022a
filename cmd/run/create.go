package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagCreateProject string
	flagCreateName    string
	flagCreateRelease string
	flagCreateCases   []string
	flagCreateActor   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a run and freeze the selected cases at their current versions",
	Long: "Each selected case is bound to its head version at this moment. Later\n" +
		"edits to the cases never change what this run executes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagCreateProject)
		if project == "" {
			return errors.New("--project is required")
		}
		if strings.TrimSpace(flagCreateName) == "" {
			return errors.New("--name is required")
		}
		var caseIDs []string
		for _, raw := range flagCreateCases {
			for _, id := range strings.Split(raw, ",") {
				if id = strings.TrimSpace(id); id != "" {
					caseIDs = append(caseIDs, id)
				}
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		d, err := svc.CreateRun(ctx, project, flagCreateName, flagCreateRelease, caseIDs, flagCreateActor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run created id=%s with %d bound case(s)\n", d.Run.ID, len(d.Cases))
		bound := make([]map[string]any, 0, len(d.Cases))
		for _, rc := range d.Cases {
			bound = append(bound, map[string]any{
				"run_case_id": rc.ID,
				"case_id":     rc.CaseID,
				"version_id":  rc.CaseVersionID,
			})
		}
		return printJSON(map[string]any{
			"id":     d.Run.ID,
			"name":   d.Run.Name,
			"status": d.Run.Status,
			"cases":  bound,
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&flagCreateProject, "project", "", "Project id (required)")
	createCmd.Flags().StringVar(&flagCreateName, "name", "", "Run name, e.g. 'v2.1 regression' (required)")
	createCmd.Flags().StringVar(&flagCreateRelease, "release", "", "Release version under test")
	createCmd.Flags().StringArrayVar(&flagCreateCases, "case", nil, "Case id to include (repeatable, comma-separated allowed)")
	createCmd.Flags().StringVar(&flagCreateActor, "actor", "", "Name recorded as the run creator")
}
