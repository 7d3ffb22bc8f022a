package runs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/memstore"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
)

const project = "01TESTPROJECT0000000000000"

// fixture wires a cases service and a runs service over the same state so
// run bindings can reference real cases.
type fixture struct {
	cases *cases.Service
	runs  *runs.Service
}

func newFixture() *fixture {
	mem := memstore.New()
	return &fixture{
		cases: cases.New(mem.Cases(), zerolog.Nop()),
		runs:  runs.New(mem.Runs(), zerolog.Nop()),
	}
}

func (f *fixture) mustCreateCase(t *testing.T, title string) *cases.Detail {
	t.Helper()
	ctx := context.Background()
	c, _, err := f.cases.CreateCase(ctx, project, cases.Input{
		Title: title,
		Steps: []snapshot.StepInput{
			{StepNo: 1, Action: "do the thing", Expected: "it works"},
			{StepNo: 2, Action: "check again", Expected: "still works"},
		},
	}, "")
	if err != nil {
		t.Fatalf("create case %q: %v", title, err)
	}
	detail, err := f.cases.GetCaseDetail(ctx, c.ID)
	if err != nil {
		t.Fatalf("case detail: %v", err)
	}
	return detail
}

func TestCreateRunBindsHeadVersions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	b := f.mustCreateCase(t, "Case B")

	detail, err := f.runs.CreateRun(ctx, project, "sprint 12", "v1.4.0", []string{a.Case.ID, b.Case.ID}, "kenji")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if detail.Run.Status != runs.RunOpen {
		t.Fatalf("new run should be open; got %q", detail.Run.Status)
	}
	if len(detail.Cases) != 2 {
		t.Fatalf("expected 2 bound cases; got %d", len(detail.Cases))
	}
	for _, rc := range detail.Cases {
		if rc.Status != string(runs.StatusUntested) {
			t.Fatalf("bound case should start untested; got %q", rc.Status)
		}
	}
	if detail.Cases[0].CaseVersionID != a.Case.CurrentVersionID.String {
		t.Fatalf("expected binding to head version %s; got %s", a.Case.CurrentVersionID.String, detail.Cases[0].CaseVersionID)
	}
}

func TestCreateRunFreezesVersions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	headAtCreate := a.Case.CurrentVersionID.String

	detail, err := f.runs.CreateRun(ctx, project, "release check", "", []string{a.Case.ID}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	// Editing the case after run creation must not move the binding.
	if _, err := f.cases.CreateVersion(ctx, a.Case.ID, cases.Input{
		Title: "Case A amended",
		Steps: []snapshot.StepInput{{StepNo: 1, Action: "new flow", Expected: "new outcome"}},
	}, ""); err != nil {
		t.Fatalf("create version: %v", err)
	}

	after, err := f.runs.GetRunDetail(ctx, detail.Run.ID)
	if err != nil {
		t.Fatalf("run detail: %v", err)
	}
	if after.Cases[0].CaseVersionID != headAtCreate {
		t.Fatalf("binding moved after case edit: want %s; got %s", headAtCreate, after.Cases[0].CaseVersionID)
	}

	exec, err := f.runs.GetExecution(ctx, after.Cases[0].ID)
	if err != nil {
		t.Fatalf("execution: %v", err)
	}
	if len(exec.Steps) != 2 || exec.Steps[0].Action != "do the thing" {
		t.Fatalf("execution should show the frozen version's steps; got %+v", exec.Steps)
	}
	if exec.Result != nil {
		t.Fatalf("no result saved yet; got %+v", exec.Result)
	}
}

func TestCreateRunSkipsAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	detail, err := f.runs.CreateRun(ctx, project, "sprint 13", "", []string{
		a.Case.ID,
		a.Case.ID, // duplicate
		"01NOSUCHCASE00000000000000", // no head version
	}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if len(detail.Cases) != 1 {
		t.Fatalf("expected 1 bound case after dedupe and skip; got %d", len(detail.Cases))
	}
}

func TestCreateRunRequiresName(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if _, err := f.runs.CreateRun(ctx, project, "  ", "", nil, ""); !errors.Is(err, runs.ErrValidation) {
		t.Fatalf("expected validation error; got %v", err)
	}
}

func TestSaveResultDerivesOverall(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	detail, err := f.runs.CreateRun(ctx, project, "sprint 14", "", []string{a.Case.ID}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	rcID := detail.Cases[0].ID

	overall, resultID, err := f.runs.SaveResult(ctx, rcID, "first pass", []runs.StepResultInput{
		{StepNo: 1, Status: runs.StatusPass},
		{StepNo: 2, Status: runs.StatusFail, Comment: "button missing"},
	}, "kenji")
	if err != nil {
		t.Fatalf("save result: %v", err)
	}
	if overall != runs.StatusFail {
		t.Fatalf("expected overall fail; got %s", overall)
	}
	if resultID == "" {
		t.Fatalf("expected a result id")
	}

	exec, err := f.runs.GetExecution(ctx, rcID)
	if err != nil {
		t.Fatalf("execution: %v", err)
	}
	if exec.RunCase.Status != string(runs.StatusFail) {
		t.Fatalf("run-case status should mirror the overall; got %q", exec.RunCase.Status)
	}
	if exec.Result == nil || len(exec.Result.StepResults) != 2 {
		t.Fatalf("expected saved result with 2 step results; got %+v", exec.Result)
	}
	if exec.Result.StepResults[1].Comment != "button missing" {
		t.Fatalf("step comment lost: %+v", exec.Result.StepResults)
	}
}

func TestSaveResultReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	detail, err := f.runs.CreateRun(ctx, project, "sprint 15", "", []string{a.Case.ID}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	rcID := detail.Cases[0].ID

	if _, _, err := f.runs.SaveResult(ctx, rcID, "", []runs.StepResultInput{
		{StepNo: 1, Status: runs.StatusFail},
		{StepNo: 2, Status: runs.StatusUntested},
	}, ""); err != nil {
		t.Fatalf("first save: %v", err)
	}
	overall, _, err := f.runs.SaveResult(ctx, rcID, "retest after fix", []runs.StepResultInput{
		{StepNo: 1, Status: runs.StatusPass},
		{StepNo: 2, Status: runs.StatusPass},
	}, "")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if overall != runs.StatusPass {
		t.Fatalf("expected pass after retest; got %s", overall)
	}

	exec, err := f.runs.GetExecution(ctx, rcID)
	if err != nil {
		t.Fatalf("execution: %v", err)
	}
	if len(exec.Result.StepResults) != 2 {
		t.Fatalf("old step results should be replaced, not appended; got %d", len(exec.Result.StepResults))
	}
	for _, sr := range exec.Result.StepResults {
		if sr.Status != string(runs.StatusPass) {
			t.Fatalf("stale step result survived: %+v", sr)
		}
	}
	if exec.Result.Comment != "retest after fix" {
		t.Fatalf("result comment not replaced: %q", exec.Result.Comment)
	}
}

func TestSaveResultValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	detail, err := f.runs.CreateRun(ctx, project, "sprint 16", "", []string{a.Case.ID}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	_, _, err = f.runs.SaveResult(ctx, detail.Cases[0].ID, "", []runs.StepResultInput{
		{StepNo: 1, Status: "skipped"},
	}, "")
	if !errors.Is(err, runs.ErrValidation) {
		t.Fatalf("expected validation error for bad status; got %v", err)
	}

	_, _, err = f.runs.SaveResult(ctx, "01NOSUCHRUNCASE00000000000", "", nil, "")
	if !errors.Is(err, runs.ErrRunCaseNotFound) {
		t.Fatalf("expected ErrRunCaseNotFound; got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	detail, err := f.runs.CreateRun(ctx, project, "sprint 17", "", nil, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := f.runs.SetStatus(ctx, detail.Run.ID, runs.RunClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, err := f.runs.GetRun(ctx, detail.Run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != runs.RunClosed {
		t.Fatalf("expected closed; got %q", got.Status)
	}
	if err := f.runs.SetStatus(ctx, detail.Run.ID, "paused"); !errors.Is(err, runs.ErrValidation) {
		t.Fatalf("expected validation error for unknown status; got %v", err)
	}
}

func TestDeleteRunLeavesCases(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	detail, err := f.runs.CreateRun(ctx, project, "sprint 18", "", []string{a.Case.ID}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	rcID := detail.Cases[0].ID

	if err := f.runs.DeleteRun(ctx, detail.Run.ID); err != nil {
		t.Fatalf("delete run: %v", err)
	}
	if _, err := f.runs.GetRun(ctx, detail.Run.ID); !errors.Is(err, runs.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound; got %v", err)
	}
	if _, err := f.runs.GetExecution(ctx, rcID); !errors.Is(err, runs.ErrRunCaseNotFound) {
		t.Fatalf("run-cases should cascade; got %v", err)
	}
	// The case and its versions are untouched.
	if _, err := f.cases.GetCaseDetail(ctx, a.Case.ID); err != nil {
		t.Fatalf("case should survive run deletion: %v", err)
	}
	if err := f.runs.DeleteRun(ctx, detail.Run.ID); !errors.Is(err, runs.ErrRunNotFound) {
		t.Fatalf("second delete should report not found; got %v", err)
	}
}

func TestDeleteCaseCascadesIntoRuns(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.mustCreateCase(t, "Case A")
	b := f.mustCreateCase(t, "Case B")
	detail, err := f.runs.CreateRun(ctx, project, "sprint 19", "", []string{a.Case.ID, b.Case.ID}, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	if err := f.cases.DeleteCase(ctx, a.Case.ID); err != nil {
		t.Fatalf("delete case: %v", err)
	}
	after, err := f.runs.GetRunDetail(ctx, detail.Run.ID)
	if err != nil {
		t.Fatalf("run detail: %v", err)
	}
	if len(after.Cases) != 1 || after.Cases[0].CaseID != b.Case.ID {
		t.Fatalf("expected only Case B to remain bound; got %+v", after.Cases)
	}
}
