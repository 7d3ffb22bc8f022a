package casesvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flarebyte/baldrick-casetrail/internal/metrics"
	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/importer"
	"github.com/flarebyte/baldrick-casetrail/internal/service/memstore"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
)

const project = "01TESTPROJECT0000000000000"

// Registered once; the collectors live on the default Prometheus registry.
var testMetrics = metrics.New()

func newService() *Service {
	caseSvc := cases.New(memstore.New().Cases(), zerolog.Nop())
	return &Service{
		Cases:    caseSvc,
		Importer: importer.New(caseSvc, zerolog.Nop()),
		Metrics:  testMetrics,
	}
}

func sampleInput() CaseInput {
	return CaseInput{
		Suite:    "auth",
		Title:    "Login works",
		Priority: "high",
		Steps: []snapshot.StepInput{
			{StepNo: 1, Action: "open page", Expected: "page loads"},
		},
	}
}

func TestCreateCaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	resp, err := svc.CreateCase(ctx, &CreateCaseRequest{ProjectID: project, Actor: "kenji", Case: sampleInput()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Case.ID == "" || resp.Version.VersionNo != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Case.SuiteID == "" {
		t.Fatalf("suite name should resolve to an id; got %+v", resp.Case)
	}
	if len(resp.Version.Steps) != 1 {
		t.Fatalf("create should echo the version with steps; got %+v", resp.Version)
	}

	got, err := svc.GetCase(ctx, &GetCaseRequest{ID: resp.Case.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Case.Title != "Login works" || len(got.Versions) != 1 {
		t.Fatalf("unexpected detail: %+v", got)
	}
	if got.Versions[0].Steps != nil {
		t.Fatalf("history entries should omit steps; got %+v", got.Versions[0])
	}
}

func TestCreateCaseBoundaryChecks(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	in := sampleInput()
	if _, err := svc.CreateCase(ctx, &CreateCaseRequest{Case: in}); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for missing project_id; got %v", err)
	}

	in.Steps = nil
	if _, err := svc.CreateCase(ctx, &CreateCaseRequest{ProjectID: project, Case: in}); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for empty steps; got %v", err)
	}
}

func TestCreateVersionKeepsProject(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.CreateCase(ctx, &CreateCaseRequest{ProjectID: project, Case: sampleInput()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	in := sampleInput()
	in.Priority = "low"
	v, err := svc.CreateVersion(ctx, &CreateVersionRequest{CaseID: created.Case.ID, Case: in})
	if err != nil {
		t.Fatalf("create version: %v", err)
	}
	if v.Version.VersionNo != 2 {
		t.Fatalf("expected version 2; got %d", v.Version.VersionNo)
	}

	if _, err := svc.CreateVersion(ctx, &CreateVersionRequest{Case: sampleInput()}); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for missing case_id; got %v", err)
	}
}

func TestDiffIdenticalFlag(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.CreateCase(ctx, &CreateCaseRequest{ProjectID: project, Case: sampleInput()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	d, err := svc.Diff(ctx, &DiffRequest{FromVersionID: created.Version.ID, ToVersionID: created.Version.ID})
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !d.Identical {
		t.Fatalf("self diff should be identical; got %+v", d)
	}
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	csv := "title,step_no,expected\nLogin works,1,page loads\nLogin works,2,dashboard shown\n"
	resp, err := svc.ImportCSV(ctx, &ImportCSVRequest{ProjectID: project, CSV: csv})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.CasesCreated != 1 || resp.RowsRead != 2 {
		t.Fatalf("unexpected report: %+v", resp)
	}

	if _, err := svc.ImportCSV(ctx, &ImportCSVRequest{ProjectID: project}); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for empty payload; got %v", err)
	}
	if _, err := svc.ImportCSV(ctx, &ImportCSVRequest{ProjectID: project, CSV: "suite\nx\n"}); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("malformed CSV should surface as validation error; got %v", err)
	}
}

func TestConnectHandlerRoutes(t *testing.T) {
	svc := newService()
	h := svc.ConnectHandler()

	body := `{"project_id":"` + project + `","case":{"title":"Login works","steps":[{"step_no":1,"expected":"page loads"}]}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/casetrail.v1.CaseService/CreateCase", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rec.Code, rec.Body.String())
	}
	var out CreateCaseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Version.VersionNo != 1 {
		t.Fatalf("unexpected response: %+v", out)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/casetrail.v1.CaseService/GetCase", strings.NewReader(`{"id":"01NOSUCHCASE00000000000000"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", rec.Code)
	}
	if code := rec.Header().Get("Connect-Error-Code"); code != "not_found" {
		t.Fatalf("expected not_found; got %q", code)
	}
}
