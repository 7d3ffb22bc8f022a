// Package casesvc exposes the case version store over the gRPC JSON codec
// and Connect-style HTTP. Both transports decode to the same wire types and
// share the RPC methods below.
package casesvc

import (
	"context"
	"fmt"
	"strings"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/metrics"
	"github.com/flarebyte/baldrick-casetrail/internal/server/wire"
	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/importer"
	"github.com/flarebyte/baldrick-casetrail/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

type Service struct {
	Cases    *cases.Service
	Importer *importer.Service
	Metrics  *metrics.Metrics
}

// CaseServiceServer defines the interface used by gRPC registration.
type CaseServiceServer interface {
	CreateCase(context.Context, *CreateCaseRequest) (*CreateCaseResponse, error)
	CreateVersion(context.Context, *CreateVersionRequest) (*CreateVersionResponse, error)
	GetCase(context.Context, *GetCaseRequest) (*GetCaseResponse, error)
	GetVersion(context.Context, *GetVersionRequest) (*GetVersionResponse, error)
	ListCases(context.Context, *ListCasesRequest) (*ListCasesResponse, error)
	Diff(context.Context, *DiffRequest) (*DiffResponse, error)
	DeleteCase(context.Context, *DeleteCaseRequest) (*DeleteCaseResponse, error)
	SetSuite(context.Context, *SetSuiteRequest) (*SetSuiteResponse, error)
	ListSuites(context.Context, *ListSuitesRequest) (*ListSuitesResponse, error)
	ImportCSV(context.Context, *ImportCSVRequest) (*ImportCSVResponse, error)
}

// Register registers the service with the provided gRPC server using a JSON
// codec.
func (s *Service) Register(gs *grpc.Server) {
	grpcjson.Register()
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: "casetrail.v1.CaseService",
		HandlerType: (*CaseServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "CreateCase", Handler: unary(s.CreateCase)},
			{MethodName: "CreateVersion", Handler: unary(s.CreateVersion)},
			{MethodName: "GetCase", Handler: unary(s.GetCase)},
			{MethodName: "GetVersion", Handler: unary(s.GetVersion)},
			{MethodName: "ListCases", Handler: unary(s.ListCases)},
			{MethodName: "Diff", Handler: unary(s.Diff)},
			{MethodName: "DeleteCase", Handler: unary(s.DeleteCase)},
			{MethodName: "SetSuite", Handler: unary(s.SetSuite)},
			{MethodName: "ListSuites", Handler: unary(s.ListSuites)},
			{MethodName: "ImportCSV", Handler: unary(s.ImportCSV)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "proto/casetrail/v1/case.proto",
	}, s)
}

// unary adapts a typed RPC method to the grpc.MethodDesc handler shape.
func unary[Req any, Resp any](fn func(context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
		var in Req
		if err := dec(&in); err != nil {
			return nil, err
		}
		return fn(ctx, &in)
	}
}

// CreateCase creates a new case with version 1. At least one step is
// required at this boundary; the store itself tolerates step-less versions
// for internal use.
func (s *Service) CreateCase(ctx context.Context, in *CreateCaseRequest) (*CreateCaseResponse, error) {
	if err := checkBoundary(in.ProjectID, in.Case); err != nil {
		return nil, err
	}
	csIn, err := s.caseInput(ctx, in.ProjectID, in.Case)
	if err != nil {
		return nil, err
	}
	c, v, err := s.Cases.CreateCase(ctx, in.ProjectID, csIn, in.Actor)
	if err != nil {
		return nil, err
	}
	s.Metrics.VersionsCreatedTotal.Inc()
	return &CreateCaseResponse{Case: caseItem(c), Version: versionItem(v, true)}, nil
}

// CreateVersion writes a new version of an existing case and moves the head
// pointer to it.
func (s *Service) CreateVersion(ctx context.Context, in *CreateVersionRequest) (*CreateVersionResponse, error) {
	if in.CaseID == "" {
		return nil, fmt.Errorf("%w: case_id is required", cases.ErrValidation)
	}
	if err := checkSteps(in.Case); err != nil {
		return nil, err
	}
	c, err := s.Cases.GetCaseDetail(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}
	csIn, err := s.caseInput(ctx, c.Case.ProjectID, in.Case)
	if err != nil {
		return nil, err
	}
	v, err := s.Cases.CreateVersion(ctx, in.CaseID, csIn, in.Actor)
	if err != nil {
		return nil, err
	}
	s.Metrics.VersionsCreatedTotal.Inc()
	return &CreateVersionResponse{Version: versionItem(v, true)}, nil
}

func (s *Service) GetCase(ctx context.Context, in *GetCaseRequest) (*GetCaseResponse, error) {
	d, err := s.Cases.GetCaseDetail(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	resp := &GetCaseResponse{Case: caseItem(d.Case), Versions: make([]VersionItem, 0, len(d.Versions))}
	for i := range d.Versions {
		resp.Versions = append(resp.Versions, versionItem(&d.Versions[i], false))
	}
	return resp, nil
}

func (s *Service) GetVersion(ctx context.Context, in *GetVersionRequest) (*GetVersionResponse, error) {
	v, err := s.Cases.GetVersion(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &GetVersionResponse{Version: versionItem(v, true)}, nil
}

func (s *Service) ListCases(ctx context.Context, in *ListCasesRequest) (*ListCasesResponse, error) {
	items, err := s.Cases.ListCases(ctx, in.ProjectID, in.SuiteID, int(in.Limit), int(in.Offset))
	if err != nil {
		return nil, err
	}
	resp := &ListCasesResponse{Items: make([]CaseItem, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, caseItem(&items[i]))
	}
	return resp, nil
}

// Diff compares two versions of a case; identical versions yield an empty
// diff with Identical set.
func (s *Service) Diff(ctx context.Context, in *DiffRequest) (*DiffResponse, error) {
	d, err := s.Cases.Diff(ctx, in.FromVersionID, in.ToVersionID)
	if err != nil {
		return nil, err
	}
	return &DiffResponse{Diff: d, Identical: d.Empty()}, nil
}

func (s *Service) DeleteCase(ctx context.Context, in *DeleteCaseRequest) (*DeleteCaseResponse, error) {
	if err := s.Cases.DeleteCase(ctx, in.ID); err != nil {
		return nil, err
	}
	return &DeleteCaseResponse{Deleted: true}, nil
}

func (s *Service) SetSuite(ctx context.Context, in *SetSuiteRequest) (*SetSuiteResponse, error) {
	id, err := s.Cases.EnsureSuite(ctx, in.ProjectID, strings.TrimSpace(in.Name))
	if err != nil {
		return nil, err
	}
	return &SetSuiteResponse{ID: id}, nil
}

func (s *Service) ListSuites(ctx context.Context, in *ListSuitesRequest) (*ListSuitesResponse, error) {
	items, err := s.Cases.ListSuites(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	resp := &ListSuitesResponse{Items: make([]SuiteItem, 0, len(items))}
	for _, su := range items {
		resp.Items = append(resp.Items, SuiteItem{ID: su.ID, ProjectID: su.ProjectID, Name: su.Name, Created: wire.Time(su.Created)})
	}
	return resp, nil
}

// ImportCSV ingests a CSV payload through the version store; see the
// importer package for the expected columns.
func (s *Service) ImportCSV(ctx context.Context, in *ImportCSVRequest) (*ImportCSVResponse, error) {
	if in.CSV == "" {
		return nil, fmt.Errorf("%w: csv payload is required", cases.ErrValidation)
	}
	rows, err := importer.Parse(strings.NewReader(in.CSV))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cases.ErrValidation, err)
	}
	rep, err := s.Importer.Import(ctx, in.ProjectID, rows, in.Actor)
	if err != nil {
		return nil, err
	}
	return &ImportCSVResponse{CasesCreated: rep.CasesCreated, VersionsCreated: rep.VersionsCreated, RowsRead: rep.RowsRead}, nil
}

func checkBoundary(projectID string, in CaseInput) error {
	if projectID == "" {
		return fmt.Errorf("%w: project_id is required", cases.ErrValidation)
	}
	return checkSteps(in)
}

func checkSteps(in CaseInput) error {
	if len(in.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", cases.ErrValidation)
	}
	return nil
}

// caseInput converts the wire input, resolving the suite name to an id
// (creating the suite on first use).
func (s *Service) caseInput(ctx context.Context, projectID string, in CaseInput) (cases.Input, error) {
	out := cases.Input{
		Title:            in.Title,
		QualityAttribute: in.QualityAttribute,
		CategoryLarge:    in.CategoryLarge,
		CategoryMedium:   in.CategoryMedium,
		Preconditions:    in.Preconditions,
		Priority:         in.Priority,
		Tags:             in.Tags,
		Steps:            in.Steps,
	}
	if in.Suite != "" {
		suiteID, err := s.Cases.EnsureSuite(ctx, projectID, strings.TrimSpace(in.Suite))
		if err != nil {
			return cases.Input{}, err
		}
		out.SuiteID = suiteID
	}
	return out, nil
}

func caseItem(c *pgdao.Case) CaseItem {
	return CaseItem{
		ID:               c.ID,
		ProjectID:        c.ProjectID,
		SuiteID:          wire.NullString(c.SuiteID),
		Title:            c.Title,
		QualityAttribute: c.QualityAttribute,
		CategoryLarge:    c.CategoryLarge,
		CategoryMedium:   c.CategoryMedium,
		Preconditions:    c.Preconditions,
		Priority:         c.Priority,
		Tags:             c.Tags,
		CurrentVersionID: wire.NullString(c.CurrentVersionID),
		CreatedBy:        wire.NullString(c.CreatedBy),
		Created:          wire.Time(c.Created),
		Updated:          wire.Time(c.Updated),
	}
}

func versionItem(v *pgdao.Version, withSteps bool) VersionItem {
	it := VersionItem{
		ID:        v.ID,
		CaseID:    v.CaseID,
		VersionNo: v.VersionNo,
		Snapshot:  v.Snap,
		CreatedBy: wire.NullString(v.CreatedBy),
		Created:   wire.Time(v.Created),
	}
	if withSteps {
		it.Steps = v.Steps
	}
	return it
}
