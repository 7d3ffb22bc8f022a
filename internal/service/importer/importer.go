// Package importer ingests cases from CSV the same way a form would: rows
// are grouped by (suite, case title), sorted by step number, and written
// through the case version store. There is no bypass path around
// versioning.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
)

// Row is one parsed CSV line. Several rows with the same (suite, title) form
// one case; each row contributes one step.
type Row struct {
	Suite            string
	Title            string
	QualityAttribute string
	CategoryLarge    string
	CategoryMedium   string
	Preconditions    string
	Priority         string
	Tags             string // comma-joined
	StepNo           float64
	Action           string
	InputData        string
	Expected         string
}

// Report summarizes one import.
type Report struct {
	CasesCreated    int
	VersionsCreated int
	RowsRead        int
}

type Service struct {
	cases *cases.Service
	log   zerolog.Logger
}

func New(caseSvc *cases.Service, log zerolog.Logger) *Service {
	return &Service{cases: caseSvc, log: log}
}

var columns = []string{
	"suite", "title", "quality_attribute", "category_large", "category_medium",
	"preconditions", "priority", "tags", "step_no", "action", "input_data", "expected",
}

// Parse reads CSV with a header line naming any subset of the known columns,
// in any order. Unknown columns are ignored; a missing step_no makes the row
// invalid.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["title"]; !ok {
		return nil, fmt.Errorf("header is missing the title column")
	}
	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		stepNo, err := strconv.ParseFloat(strings.TrimSpace(field(rec, "step_no")), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: step_no: %w", line, err)
		}
		rows = append(rows, Row{
			Suite:            strings.TrimSpace(field(rec, "suite")),
			Title:            strings.TrimSpace(field(rec, "title")),
			QualityAttribute: field(rec, "quality_attribute"),
			CategoryLarge:    field(rec, "category_large"),
			CategoryMedium:   field(rec, "category_medium"),
			Preconditions:    field(rec, "preconditions"),
			Priority:         field(rec, "priority"),
			Tags:             field(rec, "tags"),
			StepNo:           stepNo,
			Action:           field(rec, "action"),
			InputData:        field(rec, "input_data"),
			Expected:         field(rec, "expected"),
		})
	}
	return rows, nil
}

// Import groups the rows and writes each group through the version store: a
// new case when no case with that (suite, title) exists yet in the project,
// a new version of the existing case otherwise.
func (s *Service) Import(ctx context.Context, projectID string, rows []Row, actor string) (*Report, error) {
	rep := &Report{RowsRead: len(rows)}
	type groupKey struct{ suite, title string }
	groups := map[groupKey][]Row{}
	var order []groupKey
	for _, row := range rows {
		k := groupKey{row.Suite, row.Title}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}
	for _, k := range order {
		group := groups[k]
		in, err := s.buildInput(ctx, projectID, group)
		if err != nil {
			return rep, err
		}
		existing, err := s.cases.FindCase(ctx, projectID, in.SuiteID, strings.TrimSpace(k.title))
		switch {
		case err == nil:
			if _, err := s.cases.CreateVersion(ctx, existing.ID, in, actor); err != nil {
				return rep, err
			}
			rep.VersionsCreated++
		case errors.Is(err, cases.ErrCaseNotFound):
			if _, _, err := s.cases.CreateCase(ctx, projectID, in, actor); err != nil {
				return rep, err
			}
			rep.CasesCreated++
		default:
			return rep, err
		}
	}
	s.log.Info().Int("rows", rep.RowsRead).Int("created", rep.CasesCreated).Int("versions", rep.VersionsCreated).Msg("csv import done")
	return rep, nil
}

// buildInput turns a row group into version-store input. Metadata comes from
// the first row; each row contributes one step, sorted later by the store's
// normalization.
func (s *Service) buildInput(ctx context.Context, projectID string, group []Row) (cases.Input, error) {
	head := group[0]
	in := cases.Input{
		Title:            head.Title,
		QualityAttribute: head.QualityAttribute,
		CategoryLarge:    head.CategoryLarge,
		CategoryMedium:   head.CategoryMedium,
		Preconditions:    head.Preconditions,
		Priority:         head.Priority,
	}
	if head.Tags != "" {
		in.Tags = strings.Split(head.Tags, ",")
	}
	if head.Suite != "" {
		suiteID, err := s.cases.EnsureSuite(ctx, projectID, head.Suite)
		if err != nil {
			return cases.Input{}, err
		}
		in.SuiteID = suiteID
	}
	for _, row := range group {
		in.Steps = append(in.Steps, snapshot.StepInput{
			StepNo:    row.StepNo,
			Action:    row.Action,
			InputData: row.InputData,
			Expected:  row.Expected,
		})
	}
	return in, nil
}
