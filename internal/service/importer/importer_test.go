package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/importer"
	"github.com/flarebyte/baldrick-casetrail/internal/service/memstore"
	"github.com/rs/zerolog"
)

const project = "01TESTPROJECT0000000000000"

const sampleCSV = `suite,title,priority,tags,step_no,action,input_data,expected
auth,Login works,high,"smoke,auth",1,open page,,page loads
auth,Login works,high,"smoke,auth",2,submit form,user1,dashboard shown
auth,Logout works,low,,1,click logout,,login page shown
`

func newServices() (*cases.Service, *importer.Service) {
	caseSvc := cases.New(memstore.New().Cases(), zerolog.Nop())
	return caseSvc, importer.New(caseSvc, zerolog.Nop())
}

func TestParse(t *testing.T) {
	rows, err := importer.Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows; got %d", len(rows))
	}
	if rows[0].Suite != "auth" || rows[0].Title != "Login works" || rows[0].StepNo != 1 {
		t.Fatalf("first row wrong: %+v", rows[0])
	}
	if rows[1].InputData != "user1" || rows[1].StepNo != 2 {
		t.Fatalf("second row wrong: %+v", rows[1])
	}
	if rows[2].Tags != "" || rows[2].Priority != "low" {
		t.Fatalf("third row wrong: %+v", rows[2])
	}
}

func TestParseColumnOrderIrrelevant(t *testing.T) {
	csv := "expected,step_no,title\npage loads,1,Login works\n"
	rows, err := importer.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Login works" || rows[0].Expected != "page loads" {
		t.Fatalf("columns should be matched by header name; got %+v", rows)
	}
}

func TestParseRejectsMissingTitleColumn(t *testing.T) {
	if _, err := importer.Parse(strings.NewReader("suite,step_no\na,1\n")); err == nil {
		t.Fatalf("expected error for header without title column")
	}
}

func TestParseRejectsBadStepNo(t *testing.T) {
	csv := "title,step_no,expected\nLogin works,first,page loads\n"
	if _, err := importer.Parse(strings.NewReader(csv)); err == nil {
		t.Fatalf("expected error for non-numeric step_no")
	}
	if _, err := importer.Parse(strings.NewReader(csv)); err != nil && !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error should name the offending line; got %v", err)
	}
}

func TestImportCreatesCasesWithSteps(t *testing.T) {
	ctx := context.Background()
	caseSvc, imp := newServices()

	rows, err := importer.Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rep, err := imp.Import(ctx, project, rows, "kenji")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if rep.CasesCreated != 2 || rep.VersionsCreated != 0 || rep.RowsRead != 3 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	suites, err := caseSvc.ListSuites(ctx, project)
	if err != nil {
		t.Fatalf("suites: %v", err)
	}
	if len(suites) != 1 || suites[0].Name != "auth" {
		t.Fatalf("expected the auth suite to be created; got %+v", suites)
	}

	c, err := caseSvc.FindCase(ctx, project, suites[0].ID, "Login works")
	if err != nil {
		t.Fatalf("find imported case: %v", err)
	}
	v, err := caseSvc.GetVersion(ctx, c.CurrentVersionID.String)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if len(v.Steps) != 2 || v.Steps[1].InputData != "user1" {
		t.Fatalf("grouped rows should become steps; got %+v", v.Steps)
	}
	if len(v.Snap.Tags) != 2 || v.Snap.Tags[0] != "smoke" {
		t.Fatalf("tags should be split on comma; got %v", v.Snap.Tags)
	}
}

func TestReimportWritesNewVersions(t *testing.T) {
	ctx := context.Background()
	caseSvc, imp := newServices()

	rows, err := importer.Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := imp.Import(ctx, project, rows, ""); err != nil {
		t.Fatalf("first import: %v", err)
	}
	rep, err := imp.Import(ctx, project, rows, "")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if rep.CasesCreated != 0 || rep.VersionsCreated != 2 {
		t.Fatalf("re-import should version existing cases; got %+v", rep)
	}

	suites, _ := caseSvc.ListSuites(ctx, project)
	c, err := caseSvc.FindCase(ctx, project, suites[0].ID, "Login works")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	detail, err := caseSvc.GetCaseDetail(ctx, c.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Versions) != 2 || detail.Versions[0].VersionNo != 2 {
		t.Fatalf("expected 2 versions, newest first; got %+v", detail.Versions)
	}
}
