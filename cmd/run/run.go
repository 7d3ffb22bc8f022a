package run

import (
	"context"
	"encoding/json"
	"os"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/logger"
	runsvc "github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/spf13/cobra"
)

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage test runs and their frozen case bindings",
}

func init() {
	RunCmd.AddCommand(createCmd)
	RunCmd.AddCommand(getCmd)
	RunCmd.AddCommand(listCmd)
	RunCmd.AddCommand(statusCmd)
	RunCmd.AddCommand(deleteCmd)
}

func openService(ctx context.Context) (*runsvc.Service, func(), error) {
	cfg, err := cfgpkg.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := pgdao.OpenApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return runsvc.New(runsvc.NewPGStore(db), log), db.Close, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
