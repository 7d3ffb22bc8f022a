package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// Result is the recorded outcome of executing a run-case. At most one exists
// per run-case; saving again replaces it.
type Result struct {
	ID          string
	RunCaseID   string
	Status      string
	Comment     string
	ExecutedBy  sql.NullString
	Executed    time.Time
	StepResults []StepResult
}

type StepResult struct {
	StepNo  int
	Status  string
	Comment string
}

// UpsertResult inserts or replaces the result row for a run-case and returns
// its id. Prior step results are not touched here; callers replace them
// explicitly in the same transaction.
func UpsertResult(ctx context.Context, db DBTX, r *Result) error {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	q := `INSERT INTO results (id, run_case_id, status, comment, executed_by)
          VALUES ($1, $2, $3, $4, NULLIF($5,''))
          ON CONFLICT (run_case_id) DO UPDATE SET
            status = EXCLUDED.status,
            comment = EXCLUDED.comment,
            executed_by = EXCLUDED.executed_by,
            executed = now()
          RETURNING id, executed`
	return db.QueryRow(ctx, q, r.ID, r.RunCaseID, r.Status, r.Comment, stringOrEmpty(r.ExecutedBy)).
		Scan(&r.ID, &r.Executed)
}

// ReplaceStepResults deletes all step results of a result and inserts the
// submitted set. Replacement, never a merge.
func ReplaceStepResults(ctx context.Context, db DBTX, resultID string, srs []StepResult) error {
	if _, err := db.Exec(ctx, `DELETE FROM step_results WHERE result_id=$1`, resultID); err != nil {
		return err
	}
	for _, sr := range srs {
		if _, err := db.Exec(ctx,
			`INSERT INTO step_results (result_id, step_no, status, comment) VALUES ($1, $2, $3, $4)`,
			resultID, sr.StepNo, sr.Status, sr.Comment); err != nil {
			return err
		}
	}
	return nil
}

// GetResult fetches the result of a run-case with its step results, or nil
// when none has been saved yet.
func GetResult(ctx context.Context, db DBTX, runCaseID string) (*Result, error) {
	q := `SELECT id, run_case_id, status, comment, executed_by, executed FROM results WHERE run_case_id=$1`
	var r Result
	err := db.QueryRow(ctx, q, runCaseID).Scan(&r.ID, &r.RunCaseID, &r.Status, &r.Comment, &r.ExecutedBy, &r.Executed)
	if errors.Is(err, errNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT step_no, status, comment FROM step_results WHERE result_id=$1 ORDER BY step_no ASC`, r.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sr StepResult
		if err := rows.Scan(&sr.StepNo, &sr.Status, &sr.Comment); err != nil {
			return nil, err
		}
		r.StepResults = append(r.StepResults, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}
