package result

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

var ResultCmd = &cobra.Command{
	Use:   "result",
	Short: "Record and inspect execution results for run cases",
}

func init() {
	ResultCmd.AddCommand(saveCmd)
	ResultCmd.AddCommand(getCmd)
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
