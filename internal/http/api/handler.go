// Package api wires the Connect-style service handlers, the Prometheus
// endpoint and the health check into one chi router.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/metrics"
	"github.com/flarebyte/baldrick-casetrail/internal/server/casesvc"
	"github.com/flarebyte/baldrick-casetrail/internal/server/reportsvc"
	"github.com/flarebyte/baldrick-casetrail/internal/server/runsvc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handler bundles the service surfaces mounted on the HTTP port.
type Handler struct {
	Cases   *casesvc.Service
	Runs    *runsvc.Service
	Reports *reportsvc.Service
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

// Router mounts the Connect handlers under their service prefixes plus
// /metrics and /healthz.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.Mount("/casetrail.v1.CaseService", h.Cases.ConnectHandler())
	r.Mount("/casetrail.v1.RunService", h.Runs.ConnectHandler())
	r.Mount("/casetrail.v1.ReportService", h.Reports.ConnectHandler())

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// observe records request count and latency per method path.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Metrics.ObserveRequest(r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start))
		h.Log.Debug().Str("path", r.URL.Path).Int("status", ww.Status()).Dur("elapsed", time.Since(start)).Msg("http request")
	})
}
