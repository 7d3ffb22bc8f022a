// Package runsvc exposes run creation, execution and the result engine over
// the gRPC JSON codec and Connect-style HTTP.
package runsvc

import (
	"context"
	"fmt"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/metrics"
	"github.com/flarebyte/baldrick-casetrail/internal/server/wire"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/flarebyte/baldrick-casetrail/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

type Service struct {
	Runs    *runs.Service
	Metrics *metrics.Metrics
}

// RunServiceServer defines the interface used by gRPC registration.
type RunServiceServer interface {
	CreateRun(context.Context, *CreateRunRequest) (*CreateRunResponse, error)
	GetRun(context.Context, *GetRunRequest) (*GetRunResponse, error)
	ListRuns(context.Context, *ListRunsRequest) (*ListRunsResponse, error)
	SetStatus(context.Context, *SetStatusRequest) (*SetStatusResponse, error)
	DeleteRun(context.Context, *DeleteRunRequest) (*DeleteRunResponse, error)
	GetExecution(context.Context, *GetExecutionRequest) (*GetExecutionResponse, error)
	SaveResult(context.Context, *SaveResultRequest) (*SaveResultResponse, error)
}

// Register registers the service with the provided gRPC server using a JSON
// codec.
func (s *Service) Register(gs *grpc.Server) {
	grpcjson.Register()
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: "casetrail.v1.RunService",
		HandlerType: (*RunServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "CreateRun", Handler: unary(s.CreateRun)},
			{MethodName: "GetRun", Handler: unary(s.GetRun)},
			{MethodName: "ListRuns", Handler: unary(s.ListRuns)},
			{MethodName: "SetStatus", Handler: unary(s.SetStatus)},
			{MethodName: "DeleteRun", Handler: unary(s.DeleteRun)},
			{MethodName: "GetExecution", Handler: unary(s.GetExecution)},
			{MethodName: "SaveResult", Handler: unary(s.SaveResult)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "proto/casetrail/v1/run.proto",
	}, s)
}

func unary[Req any, Resp any](fn func(context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
		var in Req
		if err := dec(&in); err != nil {
			return nil, err
		}
		return fn(ctx, &in)
	}
}

// CreateRun creates the run and binds each listed case to its current head
// version. Cases without a head version are skipped, not errors.
func (s *Service) CreateRun(ctx context.Context, in *CreateRunRequest) (*CreateRunResponse, error) {
	if in.ProjectID == "" {
		return nil, fmt.Errorf("%w: project_id is required", runs.ErrValidation)
	}
	d, err := s.Runs.CreateRun(ctx, in.ProjectID, in.Name, in.ReleaseVersion, in.CaseIDs, in.Actor)
	if err != nil {
		return nil, err
	}
	s.Metrics.RunsCreatedTotal.Inc()
	return &CreateRunResponse{Run: runItem(d.Run), Cases: runCaseItems(d.Cases)}, nil
}

func (s *Service) GetRun(ctx context.Context, in *GetRunRequest) (*GetRunResponse, error) {
	d, err := s.Runs.GetRunDetail(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &GetRunResponse{Run: runItem(d.Run), Cases: runCaseItems(d.Cases)}, nil
}

func (s *Service) ListRuns(ctx context.Context, in *ListRunsRequest) (*ListRunsResponse, error) {
	items, err := s.Runs.ListRuns(ctx, in.ProjectID, int(in.Limit), int(in.Offset))
	if err != nil {
		return nil, err
	}
	resp := &ListRunsResponse{Items: make([]RunItem, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, runItem(&items[i]))
	}
	return resp, nil
}

func (s *Service) SetStatus(ctx context.Context, in *SetStatusRequest) (*SetStatusResponse, error) {
	if err := s.Runs.SetStatus(ctx, in.ID, in.Status); err != nil {
		return nil, err
	}
	return &SetStatusResponse{ID: in.ID, Status: in.Status}, nil
}

func (s *Service) DeleteRun(ctx context.Context, in *DeleteRunRequest) (*DeleteRunResponse, error) {
	if err := s.Runs.DeleteRun(ctx, in.ID); err != nil {
		return nil, err
	}
	return &DeleteRunResponse{Deleted: true}, nil
}

func (s *Service) GetExecution(ctx context.Context, in *GetExecutionRequest) (*GetExecutionResponse, error) {
	ex, err := s.Runs.GetExecution(ctx, in.RunCaseID)
	if err != nil {
		return nil, err
	}
	resp := &GetExecutionResponse{RunCase: runCaseItem(ex.RunCase), Steps: ex.Steps}
	if ex.Result != nil {
		r := resultItem(ex.Result)
		resp.Result = &r
	}
	return resp, nil
}

// SaveResult records step outcomes for a run-case, replacing any previous
// result, and returns the derived overall status.
func (s *Service) SaveResult(ctx context.Context, in *SaveResultRequest) (*SaveResultResponse, error) {
	if in.RunCaseID == "" {
		return nil, fmt.Errorf("%w: run_case_id is required", runs.ErrValidation)
	}
	steps := make([]runs.StepResultInput, 0, len(in.Steps))
	for _, sr := range in.Steps {
		steps = append(steps, runs.StepResultInput{StepNo: sr.StepNo, Status: runs.Status(sr.Status), Comment: sr.Comment})
	}
	overall, resultID, err := s.Runs.SaveResult(ctx, in.RunCaseID, in.Comment, steps, in.Actor)
	if err != nil {
		return nil, err
	}
	s.Metrics.ResultsSavedTotal.WithLabelValues(string(overall)).Inc()
	return &SaveResultResponse{ResultID: resultID, Overall: string(overall)}, nil
}

func runItem(r *pgdao.Run) RunItem {
	return RunItem{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		Name:           r.Name,
		ReleaseVersion: r.ReleaseVersion,
		Status:         r.Status,
		CreatedBy:      wire.NullString(r.CreatedBy),
		Created:        wire.Time(r.Created),
	}
}

func runCaseItem(rc *pgdao.RunCase) RunCaseItem {
	return RunCaseItem{
		ID:            rc.ID,
		RunID:         rc.RunID,
		CaseID:        rc.CaseID,
		CaseVersionID: rc.CaseVersionID,
		CaseTitle:     rc.CaseTitle,
		VersionNo:     rc.VersionNo,
		Status:        rc.Status,
	}
}

func runCaseItems(rcs []pgdao.RunCase) []RunCaseItem {
	out := make([]RunCaseItem, 0, len(rcs))
	for i := range rcs {
		out = append(out, runCaseItem(&rcs[i]))
	}
	return out
}

func resultItem(r *pgdao.Result) ResultItem {
	it := ResultItem{
		ID:         r.ID,
		RunCaseID:  r.RunCaseID,
		Status:     r.Status,
		Comment:    r.Comment,
		ExecutedBy: wire.NullString(r.ExecutedBy),
		Executed:   wire.Time(r.Executed),
	}
	for _, sr := range r.StepResults {
		it.StepResults = append(it.StepResults, StepResultItem{StepNo: sr.StepNo, Status: sr.Status, Comment: sr.Comment})
	}
	return it
}
