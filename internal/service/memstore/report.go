package memstore

import (
	"context"
	"database/sql"
	"sort"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
)

// ReportStore adapts Store to the report.Store interface.
type ReportStore struct{ s *Store }

func (s *Store) Reports() *ReportStore { return &ReportStore{s: s} }

func (r *ReportStore) RunCaseStatusCounts(ctx context.Context, projectID string) ([]pgdao.StatusCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, rc := range r.s.runCases {
		run, ok := r.s.runs[rc.RunID]
		if !ok || run.ProjectID != projectID {
			continue
		}
		counts[rc.Status]++
	}
	var out []pgdao.StatusCount
	for status, n := range counts {
		out = append(out, pgdao.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *ReportStore) FailingRunCases(ctx context.Context, projectID string) ([]pgdao.FailureRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []pgdao.FailureRow
	for _, rc := range r.s.runCases {
		run, ok := r.s.runs[rc.RunID]
		if !ok || run.ProjectID != projectID || rc.Status != "fail" {
			continue
		}
		row := pgdao.FailureRow{
			RunCaseID: rc.ID,
			RunID:     run.ID,
			RunName:   run.Name,
			CaseID:    rc.CaseID,
			CaseTitle: rc.CaseTitle,
		}
		if cs, ok := r.s.cases[rc.CaseID]; ok {
			row.Priority = cs.Priority
		}
		if res, ok := r.s.results[rc.ID]; ok {
			row.Comment = res.Comment
			row.Executed = sql.NullTime{Time: res.Executed, Valid: true}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Executed.Time.Equal(out[j].Executed.Time) {
			return out[i].Executed.Time.After(out[j].Executed.Time)
		}
		return out[i].RunCaseID > out[j].RunCaseID
	})
	return out, nil
}

func (r *ReportStore) CasesByPriority(ctx context.Context, projectID string) ([]pgdao.PriorityCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, cs := range r.s.cases {
		if cs.ProjectID == projectID {
			counts[cs.Priority]++
		}
	}
	var out []pgdao.PriorityCount
	for p, n := range counts {
		out = append(out, pgdao.PriorityCount{Priority: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Priority < out[j].Priority
	})
	return out, nil
}
