package suite

import (
	"context"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/logger"
	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/spf13/cobra"
)

var SuiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Manage suites (named groupings of cases within a project)",
}

func init() {
	SuiteCmd.AddCommand(setCmd)
	SuiteCmd.AddCommand(listCmd)
}

// openService connects with the app role and wires the case service; the
// returned func closes the pool.
func openService(ctx context.Context) (*cases.Service, func(), error) {
	cfg, err := cfgpkg.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := pgdao.OpenApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cases.New(cases.NewPGStore(db), log), db.Close, nil
}
