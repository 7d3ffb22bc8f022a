package postgres

import (
	"context"
	"database/sql"
)

// StatusCount is one (status, count) pair aggregated over run-cases.
type StatusCount struct {
	Status string
	Count  int
}

// FailureRow is one failing run-case joined with display context.
type FailureRow struct {
	RunCaseID string
	RunID     string
	RunName   string
	CaseID    string
	CaseTitle string
	Priority  string
	Comment   string
	Executed  sql.NullTime
}

// PriorityCount is one (priority, count) pair aggregated over cases.
type PriorityCount struct {
	Priority string
	Count    int
}

// RunCaseStatusCounts aggregates run-case statuses across all runs of a
// project.
func RunCaseStatusCounts(ctx context.Context, db DBTX, projectID string) ([]StatusCount, error) {
	q := `SELECT rc.status, COUNT(*)
          FROM run_cases rc
          JOIN runs r ON r.id = rc.run_id
          WHERE r.project_id=$1
          GROUP BY rc.status`
	rows, err := db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// FailingRunCases lists every run-case currently in fail status for the
// project, newest execution first. The latest comment comes from the
// run-case's single result row.
func FailingRunCases(ctx context.Context, db DBTX, projectID string) ([]FailureRow, error) {
	q := `SELECT rc.id, r.id, r.name, c.id, c.title, c.priority,
                 COALESCE(res.comment, ''), res.executed
          FROM run_cases rc
          JOIN runs r ON r.id = rc.run_id
          JOIN cases c ON c.id = rc.case_id
          LEFT JOIN results res ON res.run_case_id = rc.id
          WHERE r.project_id=$1 AND rc.status='fail'
          ORDER BY res.executed DESC NULLS LAST, rc.id DESC`
	rows, err := db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FailureRow
	for rows.Next() {
		var f FailureRow
		if err := rows.Scan(&f.RunCaseID, &f.RunID, &f.RunName, &f.CaseID, &f.CaseTitle, &f.Priority, &f.Comment, &f.Executed); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CasesByPriority counts cases (not run-cases) grouped by their current
// priority, descending by count.
func CasesByPriority(ctx context.Context, db DBTX, projectID string) ([]PriorityCount, error) {
	q := `SELECT priority, COUNT(*)
          FROM cases
          WHERE project_id=$1
          GROUP BY priority
          ORDER BY COUNT(*) DESC, priority ASC`
	rows, err := db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PriorityCount
	for rows.Next() {
		var pc PriorityCount
		if err := rows.Scan(&pc.Priority, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}
