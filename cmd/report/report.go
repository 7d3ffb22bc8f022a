package report

import (
	"context"
	"encoding/json"
	"os"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	reportsvc "github.com/flarebyte/baldrick-casetrail/internal/service/report"
	"github.com/spf13/cobra"
)

var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate results across the runs of a project",
}

func init() {
	ReportCmd.AddCommand(summaryCmd)
	ReportCmd.AddCommand(failuresCmd)
	ReportCmd.AddCommand(prioritiesCmd)
}

func openService(ctx context.Context) (*reportsvc.Service, func(), error) {
	cfg, err := cfgpkg.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := pgdao.OpenApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return reportsvc.New(reportsvc.NewPGStore(db)), db.Close, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
