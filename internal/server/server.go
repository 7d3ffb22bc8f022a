// Package server runs the casetrail daemon: one gRPC listener with the JSON
// codec and one HTTP listener for the Connect handlers, metrics and health,
// guarded by a pid file so only one instance runs per host.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/http/api"
	"github.com/flarebyte/baldrick-casetrail/internal/paths"
	"github.com/flarebyte/baldrick-casetrail/internal/server/casesvc"
	"github.com/flarebyte/baldrick-casetrail/internal/server/runsvc"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

const DefaultGRPCAddr = "127.0.0.1:53071"

func DefaultPIDPath() string {
	h, err := paths.EnsureHome()
	if err != nil {
		h = "."
	}
	return filepath.Join(h, "server.pid")
}

// Options carries the two listen addresses and the wired service surfaces.
type Options struct {
	GRPCAddr string
	HTTPAddr string
	PIDPath  string

	Cases *casesvc.Service
	Runs  *runsvc.Service
	API   *api.Handler
}

// RunForeground serves until SIGTERM/SIGINT, then stops both listeners
// gracefully. The pid file is written on entry and removed on exit.
func RunForeground(opts Options) error {
	if err := writePID(opts.PIDPath); err != nil {
		return err
	}
	defer removePID(opts.PIDPath)

	grpcLis, err := net.Listen("tcp", opts.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	gs := grpc.NewServer()
	reflection.Register(gs)
	opts.Cases.Register(gs)
	opts.Runs.Register(gs)

	hs := &http.Server{Addr: opts.HTTPAddr, Handler: opts.API.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", opts.GRPCAddr).Msg("grpc listening")
		if err := gs.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", opts.HTTPAddr).Msg("http listening")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		gs.GracefulStop()
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func writePID(pidPath string) error {
	if _, err := os.Stat(pidPath); err == nil {
		return fmt.Errorf("pid file exists: %s", pidPath)
	}
	f, err := os.OpenFile(pidPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%d", os.Getpid())
	return err
}

func removePID(pidPath string) {
	_ = os.Remove(pidPath)
}

func ReadPID(pidPath string) (int, error) {
	b, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, err
	}
	var pid int
	if _, err := fmt.Sscanf(string(b), "%d", &pid); err != nil {
		return 0, err
	}
	return pid, nil
}

// DetachAttr returns platform-specific attributes to detach a process.
func DetachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
