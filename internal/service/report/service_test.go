package report_test

import (
	"context"
	"testing"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/memstore"
	"github.com/flarebyte/baldrick-casetrail/internal/service/report"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
)

const project = "01TESTPROJECT0000000000000"

type fixture struct {
	cases   *cases.Service
	runs    *runs.Service
	reports *report.Service
}

func newFixture() *fixture {
	mem := memstore.New()
	return &fixture{
		cases:   cases.New(mem.Cases(), zerolog.Nop()),
		runs:    runs.New(mem.Runs(), zerolog.Nop()),
		reports: report.New(mem.Reports()),
	}
}

func (f *fixture) mustCreateCase(t *testing.T, title, priority string) string {
	t.Helper()
	c, _, err := f.cases.CreateCase(context.Background(), project, cases.Input{
		Title:    title,
		Priority: priority,
		Steps:    []snapshot.StepInput{{StepNo: 1, Action: "do", Expected: "done"}},
	}, "")
	if err != nil {
		t.Fatalf("create case %q: %v", title, err)
	}
	return c.ID
}

// seedRun binds the given cases and saves one single-step result per entry in
// outcomes; entries beyond len(outcomes) stay untested.
func (f *fixture) seedRun(t *testing.T, name string, caseIDs []string, outcomes []runs.Status) *runs.Detail {
	t.Helper()
	ctx := context.Background()
	detail, err := f.runs.CreateRun(ctx, project, name, "", caseIDs, "")
	if err != nil {
		t.Fatalf("create run %q: %v", name, err)
	}
	for i, st := range outcomes {
		if _, _, err := f.runs.SaveResult(ctx, detail.Cases[i].ID, "seeded", []runs.StepResultInput{
			{StepNo: 1, Status: st},
		}, ""); err != nil {
			t.Fatalf("save result %d: %v", i, err)
		}
	}
	return detail
}

func TestSummaryEmptyProject(t *testing.T) {
	f := newFixture()
	sum, err := f.reports.Summary(context.Background(), project)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 0 || sum.CompletionRate != 0 {
		t.Fatalf("empty project should report all zeros; got %+v", sum)
	}
}

func TestSummaryCountsAndCompletionRate(t *testing.T) {
	f := newFixture()
	ids := []string{
		f.mustCreateCase(t, "Case A", "high"),
		f.mustCreateCase(t, "Case B", "high"),
		f.mustCreateCase(t, "Case C", "low"),
	}
	// Pass, fail, one left untested.
	f.seedRun(t, "sprint 20", ids, []runs.Status{runs.StatusPass, runs.StatusFail})

	sum, err := f.reports.Summary(context.Background(), project)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 3 || sum.Pass != 1 || sum.Fail != 1 || sum.Untested != 1 || sum.Blocked != 0 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	// 2 of 3 executed: round(200/3) = 67.
	if sum.CompletionRate != 67 {
		t.Fatalf("expected completion rate 67; got %d", sum.CompletionRate)
	}
}

func TestSummaryAggregatesAcrossRuns(t *testing.T) {
	f := newFixture()
	a := f.mustCreateCase(t, "Case A", "high")
	f.seedRun(t, "run one", []string{a}, []runs.Status{runs.StatusPass})
	f.seedRun(t, "run two", []string{a}, []runs.Status{runs.StatusBlocked})

	sum, err := f.reports.Summary(context.Background(), project)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 2 || sum.Pass != 1 || sum.Blocked != 1 {
		t.Fatalf("each run-case counts once per run; got %+v", sum)
	}
	if sum.CompletionRate != 100 {
		t.Fatalf("expected completion rate 100; got %d", sum.CompletionRate)
	}
}

func TestFailuresCarryContext(t *testing.T) {
	f := newFixture()
	a := f.mustCreateCase(t, "Login works", "high")
	b := f.mustCreateCase(t, "Logout works", "low")
	detail := f.seedRun(t, "sprint 21", []string{a, b}, []runs.Status{runs.StatusFail, runs.StatusPass})

	failures, err := f.reports.Failures(context.Background(), project)
	if err != nil {
		t.Fatalf("failures: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure; got %d", len(failures))
	}
	got := failures[0]
	if got.RunID != detail.Run.ID || got.RunName != "sprint 21" {
		t.Fatalf("failure should name its run; got %+v", got)
	}
	if got.CaseID != a || got.CaseTitle != "Login works" || got.Priority != "high" {
		t.Fatalf("failure should carry case context; got %+v", got)
	}
	if got.Comment != "seeded" || got.Executed == nil {
		t.Fatalf("failure should carry the result comment and timestamp; got %+v", got)
	}
}

func TestFailuresClearedByRetest(t *testing.T) {
	f := newFixture()
	a := f.mustCreateCase(t, "Case A", "")
	detail := f.seedRun(t, "sprint 22", []string{a}, []runs.Status{runs.StatusFail})

	ctx := context.Background()
	if _, _, err := f.runs.SaveResult(ctx, detail.Cases[0].ID, "fixed", []runs.StepResultInput{
		{StepNo: 1, Status: runs.StatusPass},
	}, ""); err != nil {
		t.Fatalf("retest: %v", err)
	}
	failures, err := f.reports.Failures(ctx, project)
	if err != nil {
		t.Fatalf("failures: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("passing retest should clear the failure; got %+v", failures)
	}
}

func TestPriorityBreakdown(t *testing.T) {
	f := newFixture()
	f.mustCreateCase(t, "Case A", "high")
	f.mustCreateCase(t, "Case B", "high")
	f.mustCreateCase(t, "Case C", "low")
	f.mustCreateCase(t, "Case D", "")

	rows, err := f.reports.PriorityBreakdown(context.Background(), project)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 priority buckets; got %+v", rows)
	}
	if rows[0].Priority != "high" || rows[0].Count != 2 {
		t.Fatalf("largest bucket first; got %+v", rows)
	}
	var sawEmpty bool
	for _, r := range rows {
		if r.Priority == "" && r.Count == 1 {
			sawEmpty = true
		}
	}
	if !sawEmpty {
		t.Fatalf("unprioritized cases should form their own bucket; got %+v", rows)
	}
}
