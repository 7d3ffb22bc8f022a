// Package report aggregates run-case statuses and case priorities across a
// project. All operations are read-only and reflect whatever the result
// engine last wrote; there is no caching layer.
package report

import (
	"context"
	"math"
	"time"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
)

// Store is the read-only aggregation surface.
type Store interface {
	RunCaseStatusCounts(ctx context.Context, projectID string) ([]pgdao.StatusCount, error)
	FailingRunCases(ctx context.Context, projectID string) ([]pgdao.FailureRow, error)
	CasesByPriority(ctx context.Context, projectID string) ([]pgdao.PriorityCount, error)
}

// Summary counts run-cases by status across all runs of a project.
// CompletionRate is round(100 * executed / total) where executed counts
// pass, fail and blocked; 0 when there are no run-cases at all.
type Summary struct {
	Total          int `json:"total"`
	Untested       int `json:"untested"`
	Pass           int `json:"pass"`
	Fail           int `json:"fail"`
	Blocked        int `json:"blocked"`
	CompletionRate int `json:"completion_rate"`
}

// Failure is one failing run-case with display context, newest first.
type Failure struct {
	RunCaseID string     `json:"run_case_id"`
	RunID     string     `json:"run_id"`
	RunName   string     `json:"run_name"`
	CaseID    string     `json:"case_id"`
	CaseTitle string     `json:"case_title"`
	Priority  string     `json:"priority,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	Executed  *time.Time `json:"executed,omitempty"`
}

// PriorityCount is one (priority, count) pair over cases, descending by
// count.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Summary(ctx context.Context, projectID string) (*Summary, error) {
	counts, err := s.store.RunCaseStatusCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var sum Summary
	for _, c := range counts {
		sum.Total += c.Count
		switch runs.Status(c.Status) {
		case runs.StatusPass:
			sum.Pass += c.Count
		case runs.StatusFail:
			sum.Fail += c.Count
		case runs.StatusBlocked:
			sum.Blocked += c.Count
		default:
			sum.Untested += c.Count
		}
	}
	if sum.Total > 0 {
		executed := sum.Pass + sum.Fail + sum.Blocked
		sum.CompletionRate = int(math.Round(100 * float64(executed) / float64(sum.Total)))
	}
	return &sum, nil
}

func (s *Service) Failures(ctx context.Context, projectID string) ([]Failure, error) {
	rows, err := s.store.FailingRunCases(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]Failure, 0, len(rows))
	for _, r := range rows {
		f := Failure{
			RunCaseID: r.RunCaseID,
			RunID:     r.RunID,
			RunName:   r.RunName,
			CaseID:    r.CaseID,
			CaseTitle: r.CaseTitle,
			Priority:  r.Priority,
			Comment:   r.Comment,
		}
		if r.Executed.Valid {
			t := r.Executed.Time
			f.Executed = &t
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Service) PriorityBreakdown(ctx context.Context, projectID string) ([]PriorityCount, error) {
	rows, err := s.store.CasesByPriority(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]PriorityCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, PriorityCount{Priority: r.Priority, Count: r.Count})
	}
	return out, nil
}
