package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/http/api"
	"github.com/flarebyte/baldrick-casetrail/internal/logger"
	"github.com/flarebyte/baldrick-casetrail/internal/metrics"
	srv "github.com/flarebyte/baldrick-casetrail/internal/server"
	"github.com/flarebyte/baldrick-casetrail/internal/server/casesvc"
	"github.com/flarebyte/baldrick-casetrail/internal/server/reportsvc"
	"github.com/flarebyte/baldrick-casetrail/internal/server/runsvc"
	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/importer"
	"github.com/flarebyte/baldrick-casetrail/internal/service/report"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/spf13/cobra"
)

var (
	flagDetach   bool
	flagGRPCAddr string
	flagHTTPAddr string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the local server (gRPC + HTTP)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pidPath := srv.DefaultPIDPath()
		if flagDetach {
			exe, err := os.Executable()
			if err != nil {
				return err
			}
			// Spawn a detached child running in foreground mode
			childArgs := []string{"server", "start"}
			if flagGRPCAddr != "" {
				childArgs = append(childArgs, "--grpc-addr", flagGRPCAddr)
			}
			if flagHTTPAddr != "" {
				childArgs = append(childArgs, "--http-addr", flagHTTPAddr)
			}
			child := exec.Command(exe, childArgs...)
			logPath := filepath.Join(filepath.Dir(pidPath), "server.log")
			_ = os.MkdirAll(filepath.Dir(pidPath), 0o755)
			lf, _ := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if lf != nil {
				defer lf.Close()
				child.Stdout = lf
				child.Stderr = lf
			}
			if runtime.GOOS != "windows" {
				child.SysProcAttr = srv.DetachAttr()
			}
			if err := child.Start(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "server started in background (pid=%d)\n", child.Process.Pid)
			return nil
		}

		cfg, err := cfgpkg.Load()
		if err != nil {
			return err
		}
		log := logger.Init(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

		grpcAddr := flagGRPCAddr
		if grpcAddr == "" {
			grpcAddr = fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
		}
		httpAddr := flagHTTPAddr
		if httpAddr == "" {
			httpAddr = fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port+1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		db, err := pgdao.OpenApp(ctx, cfg)
		cancel()
		if err != nil {
			return err
		}
		defer db.Close()

		m := metrics.New()
		caseSvc := cases.New(cases.NewPGStore(db), log)
		runSvc := runs.New(runs.NewPGStore(db), log)
		reportSvc := report.New(report.NewPGStore(db))
		impSvc := importer.New(caseSvc, log)

		caseSrv := &casesvc.Service{Cases: caseSvc, Importer: impSvc, Metrics: m}
		runSrv := &runsvc.Service{Runs: runSvc, Metrics: m}
		reportSrv := &reportsvc.Service{Reports: reportSvc}

		return srv.RunForeground(srv.Options{
			GRPCAddr: grpcAddr,
			HTTPAddr: httpAddr,
			PIDPath:  pidPath,
			Cases:    caseSrv,
			Runs:     runSrv,
			API: &api.Handler{
				Cases:   caseSrv,
				Runs:    runSrv,
				Reports: reportSrv,
				Metrics: m,
				Log:     log,
			},
		})
	},
}

func init() {
	startCmd.Flags().BoolVar(&flagDetach, "detach", false, "Run in background")
	startCmd.Flags().StringVar(&flagGRPCAddr, "grpc-addr", "", "gRPC listen address (defaults to config port)")
	startCmd.Flags().StringVar(&flagHTTPAddr, "http-addr", "", "HTTP listen address (defaults to config port + 1)")
}
