// Package reportsvc exposes the read-only reporting aggregations. HTTP only;
// reports are pull-style dashboard queries and get no gRPC surface.
package reportsvc

import (
	"context"
	"net/http"

	"github.com/flarebyte/baldrick-casetrail/internal/server/wire"
	"github.com/flarebyte/baldrick-casetrail/internal/service/report"
)

type Service struct {
	Reports *report.Service
}

type SummaryRequest struct {
	ProjectID string `json:"project_id"`
}

type SummaryResponse struct {
	Summary report.Summary `json:"summary"`
}

type FailuresRequest struct {
	ProjectID string `json:"project_id"`
}

type FailuresResponse struct {
	Items []report.Failure `json:"items"`
}

type PrioritiesRequest struct {
	ProjectID string `json:"project_id"`
}

type PrioritiesResponse struct {
	Items []report.PriorityCount `json:"items"`
}

// ConnectHandler is the Connect-style JSON surface for reports.
func (s *Service) ConnectHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/casetrail.v1.ReportService/Summary", wire.Post(s.Summary))
	mux.Handle("/casetrail.v1.ReportService/Failures", wire.Post(s.Failures))
	mux.Handle("/casetrail.v1.ReportService/Priorities", wire.Post(s.Priorities))
	return mux
}

func (s *Service) Summary(ctx context.Context, in *SummaryRequest) (*SummaryResponse, error) {
	sum, err := s.Reports.Summary(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{Summary: *sum}, nil
}

func (s *Service) Failures(ctx context.Context, in *FailuresRequest) (*FailuresResponse, error) {
	items, err := s.Reports.Failures(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return &FailuresResponse{Items: items}, nil
}

func (s *Service) Priorities(ctx context.Context, in *PrioritiesRequest) (*PrioritiesResponse, error) {
	items, err := s.Reports.PriorityBreakdown(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return &PrioritiesResponse{Items: items}, nil
}
