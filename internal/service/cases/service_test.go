package cases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/memstore"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

const project = "01TESTPROJECT0000000000000"

func newService() *cases.Service {
	return cases.New(memstore.New().Cases(), zerolog.Nop())
}

func loginInput() cases.Input {
	return cases.Input{
		Title:    "Login works",
		Priority: "high",
		Tags:     []string{"smoke"},
		Steps: []snapshot.StepInput{
			{StepNo: 1, Action: "open page", Expected: "page loads"},
			{StepNo: 2, Action: "submit form", InputData: "user1", Expected: "dashboard shown"},
		},
	}
}

func TestCreateCaseWritesVersionOne(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, v, err := svc.CreateCase(ctx, project, loginInput(), "kenji")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if v.VersionNo != 1 {
		t.Fatalf("expected version 1; got %d", v.VersionNo)
	}
	if !c.CurrentVersionID.Valid || c.CurrentVersionID.String != v.ID {
		t.Fatalf("head pointer should reference version 1; got %+v", c.CurrentVersionID)
	}

	got, err := svc.GetVersion(ctx, v.ID)
	if err != nil {
		t.Fatalf("get version: %v", err)
	}
	if len(got.Steps) != 2 || got.Steps[0].Action != "open page" || got.Steps[1].InputData != "user1" {
		t.Fatalf("steps did not round-trip: %+v", got.Steps)
	}
}

func TestCreateVersionSequence(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, _, err := svc.CreateCase(ctx, project, loginInput(), "kenji")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	for want := 2; want <= 4; want++ {
		in := loginInput()
		in.Priority = "medium"
		v, err := svc.CreateVersion(ctx, c.ID, in, "kenji")
		if err != nil {
			t.Fatalf("create version %d: %v", want, err)
		}
		if v.VersionNo != want {
			t.Fatalf("expected version %d; got %d", want, v.VersionNo)
		}
	}

	detail, err := svc.GetCaseDetail(ctx, c.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Versions) != 4 {
		t.Fatalf("expected 4 versions; got %d", len(detail.Versions))
	}
	// History is newest first with no gaps.
	for i, v := range detail.Versions {
		if v.VersionNo != 4-i {
			t.Fatalf("expected version %d at index %d; got %d", 4-i, i, v.VersionNo)
		}
	}
	if detail.Case.Priority != "medium" {
		t.Fatalf("case row should mirror latest version; got priority %q", detail.Case.Priority)
	}
}

func TestCreateVersionMovesHead(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, v1, err := svc.CreateCase(ctx, project, loginInput(), "")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	v2, err := svc.CreateVersion(ctx, c.ID, loginInput(), "")
	if err != nil {
		t.Fatalf("create version: %v", err)
	}
	detail, err := svc.GetCaseDetail(ctx, c.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Case.CurrentVersionID.String != v2.ID {
		t.Fatalf("head should point at version 2 (%s); got %s", v2.ID, detail.Case.CurrentVersionID.String)
	}
	// The old version is still readable.
	if _, err := svc.GetVersion(ctx, v1.ID); err != nil {
		t.Fatalf("version 1 should survive the head move: %v", err)
	}
}

func TestCreateVersionUnknownCase(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.CreateVersion(ctx, "01NOSUCHCASE00000000000000", loginInput(), "")
	if !errors.Is(err, cases.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound; got %v", err)
	}
}

func TestCreateCaseValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	in := loginInput()
	in.Title = "   "
	if _, _, err := svc.CreateCase(ctx, project, in, ""); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for blank title; got %v", err)
	}

	in = loginInput()
	in.Steps[1].Expected = ""
	if _, _, err := svc.CreateCase(ctx, project, in, ""); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for missing expected result; got %v", err)
	}

	in = loginInput()
	in.Steps[0].StepNo = 0
	if _, _, err := svc.CreateCase(ctx, project, in, ""); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for non-positive step number; got %v", err)
	}
}

func TestSuiteNameCapturedInSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	suiteID, err := svc.EnsureSuite(ctx, project, "regression")
	if err != nil {
		t.Fatalf("ensure suite: %v", err)
	}
	in := loginInput()
	in.SuiteID = suiteID
	_, v, err := svc.CreateCase(ctx, project, in, "")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if v.Snap.SuiteName != "regression" {
		t.Fatalf("snapshot should capture the suite name; got %q", v.Snap.SuiteName)
	}

	in.SuiteID = "01NOSUCHSUITE0000000000000"
	if _, _, err := svc.CreateCase(ctx, project, in, ""); !errors.Is(err, cases.ErrSuiteNotFound) {
		t.Fatalf("expected ErrSuiteNotFound; got %v", err)
	}
}

func TestEnsureSuiteIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	a, err := svc.EnsureSuite(ctx, project, "smoke")
	if err != nil {
		t.Fatalf("ensure suite: %v", err)
	}
	b, err := svc.EnsureSuite(ctx, project, "smoke")
	if err != nil {
		t.Fatalf("ensure suite again: %v", err)
	}
	if a != b {
		t.Fatalf("same name should resolve to same suite; got %s and %s", a, b)
	}
	if _, err := svc.EnsureSuite(ctx, project, ""); !errors.Is(err, cases.ErrValidation) {
		t.Fatalf("expected validation error for empty name; got %v", err)
	}
}

func TestFindCaseByIdentity(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	suiteID, _ := svc.EnsureSuite(ctx, project, "auth")
	in := loginInput()
	in.SuiteID = suiteID
	c, _, err := svc.CreateCase(ctx, project, in, "")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}

	found, err := svc.FindCase(ctx, project, suiteID, "Login works")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != c.ID {
		t.Fatalf("expected case %s; got %s", c.ID, found.ID)
	}
	if _, err := svc.FindCase(ctx, project, suiteID, "No such title"); !errors.Is(err, cases.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound; got %v", err)
	}
}

func TestDeleteCaseRemovesHistory(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, v1, err := svc.CreateCase(ctx, project, loginInput(), "")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if err := svc.DeleteCase(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetCaseDetail(ctx, c.ID); !errors.Is(err, cases.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound after delete; got %v", err)
	}
	if _, err := svc.GetVersion(ctx, v1.ID); !errors.Is(err, cases.ErrVersionNotFound) {
		t.Fatalf("versions should cascade; got %v", err)
	}
	if err := svc.DeleteCase(ctx, c.ID); !errors.Is(err, cases.ErrCaseNotFound) {
		t.Fatalf("second delete should report not found; got %v", err)
	}
}

func TestDiffBetweenVersions(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, v1, err := svc.CreateCase(ctx, project, loginInput(), "")
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	in := loginInput()
	in.Priority = "low"
	in.Steps = append(in.Steps, snapshot.StepInput{StepNo: 3, Action: "log out", Expected: "login page shown"})
	v2, err := svc.CreateVersion(ctx, c.ID, in, "")
	if err != nil {
		t.Fatalf("create version: %v", err)
	}

	d, err := svc.Diff(ctx, v1.ID, v2.ID)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	wantFields := []snapshot.FieldChange{{Field: "priority", From: "high", To: "low"}}
	if diff := cmp.Diff(wantFields, d.Fields); diff != "" {
		t.Fatalf("field changes mismatch (-want +got):\n%s", diff)
	}
	if len(d.StepsAdded) != 1 || d.StepsAdded[0].StepNo != 3 {
		t.Fatalf("expected step 3 added; got %v", d.StepsAdded)
	}

	same, err := svc.Diff(ctx, v1.ID, v1.ID)
	if err != nil {
		t.Fatalf("self diff: %v", err)
	}
	if !same.Empty() {
		t.Fatalf("self diff should be empty; got %+v", same)
	}

	if _, err := svc.Diff(ctx, v1.ID, "01NOSUCHVERSION00000000000"); !errors.Is(err, cases.ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound; got %v", err)
	}
}
