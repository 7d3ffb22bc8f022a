package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

type Run struct {
	ID             string
	ProjectID      string
	Name           string
	ReleaseVersion string
	Status         string
	CreatedBy      sql.NullString
	Created        time.Time
}

// RunCase binds one case to one run at a fixed version. CaseVersionID never
// changes after insert; Status is the denormalized mirror of the latest
// result's overall status.
type RunCase struct {
	ID            string
	RunID         string
	CaseID        string
	CaseVersionID string
	Status        string
	// Joined for display
	CaseTitle string
	VersionNo int
}

func InsertRun(ctx context.Context, db DBTX, r *Run) error {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	q := `INSERT INTO runs (id, project_id, name, release_version, status, created_by)
          VALUES ($1, $2, $3, $4, 'open', NULLIF($5,''))
          RETURNING status, created`
	return db.QueryRow(ctx, q, r.ID, r.ProjectID, r.Name, r.ReleaseVersion, stringOrEmpty(r.CreatedBy)).
		Scan(&r.Status, &r.Created)
}

func GetRun(ctx context.Context, db DBTX, id string) (*Run, error) {
	q := `SELECT id, project_id, name, release_version, status, created_by, created FROM runs WHERE id=$1`
	var r Run
	if err := db.QueryRow(ctx, q, id).Scan(&r.ID, &r.ProjectID, &r.Name, &r.ReleaseVersion, &r.Status, &r.CreatedBy, &r.Created); err != nil {
		return nil, err
	}
	return &r, nil
}

func ListRuns(ctx context.Context, db DBTX, projectID string, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.Query(ctx,
		`SELECT id, project_id, name, release_version, status, created_by, created
         FROM runs WHERE project_id=$1 ORDER BY created DESC LIMIT $2 OFFSET $3`, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Name, &r.ReleaseVersion, &r.Status, &r.CreatedBy, &r.Created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetRunStatus flips the run's open/closed flag. No side effects on run-case
// rows.
func SetRunStatus(ctx context.Context, db DBTX, id, status string) error {
	ct, err := db.Exec(ctx, `UPDATE runs SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errNoRows
	}
	return nil
}

func DeleteRun(ctx context.Context, db DBTX, id string) (int64, error) {
	ct, err := db.Exec(ctx, `DELETE FROM runs WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// CaseHead returns the current head version id of a case within a project.
// ok is false when the case does not exist in that project or has no head
// version yet.
func CaseHead(ctx context.Context, db DBTX, projectID, caseID string) (versionID string, ok bool, err error) {
	var head sql.NullString
	err = db.QueryRow(ctx, `SELECT current_version_id FROM cases WHERE id=$1 AND project_id=$2`, caseID, projectID).Scan(&head)
	if errors.Is(err, errNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !head.Valid || head.String == "" {
		return "", false, nil
	}
	return head.String, true, nil
}

func InsertRunCase(ctx context.Context, db DBTX, rc *RunCase) error {
	if rc.ID == "" {
		rc.ID = ulid.Make().String()
	}
	q := `INSERT INTO run_cases (id, run_id, case_id, case_version_id, status)
          VALUES ($1, $2, $3, $4, 'untested')
          RETURNING status`
	return db.QueryRow(ctx, q, rc.ID, rc.RunID, rc.CaseID, rc.CaseVersionID).Scan(&rc.Status)
}

func GetRunCase(ctx context.Context, db DBTX, id string) (*RunCase, error) {
	q := `SELECT rc.id, rc.run_id, rc.case_id, rc.case_version_id, rc.status, c.title, v.version_no
          FROM run_cases rc
          JOIN cases c ON c.id = rc.case_id
          JOIN case_versions v ON v.id = rc.case_version_id
          WHERE rc.id=$1`
	var rc RunCase
	if err := db.QueryRow(ctx, q, id).Scan(&rc.ID, &rc.RunID, &rc.CaseID, &rc.CaseVersionID, &rc.Status, &rc.CaseTitle, &rc.VersionNo); err != nil {
		return nil, err
	}
	return &rc, nil
}

func ListRunCases(ctx context.Context, db DBTX, runID string) ([]RunCase, error) {
	q := `SELECT rc.id, rc.run_id, rc.case_id, rc.case_version_id, rc.status, c.title, v.version_no
          FROM run_cases rc
          JOIN cases c ON c.id = rc.case_id
          JOIN case_versions v ON v.id = rc.case_version_id
          WHERE rc.run_id=$1
          ORDER BY c.title ASC, rc.id ASC`
	rows, err := db.Query(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunCase
	for rows.Next() {
		var rc RunCase
		if err := rows.Scan(&rc.ID, &rc.RunID, &rc.CaseID, &rc.CaseVersionID, &rc.Status, &rc.CaseTitle, &rc.VersionNo); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// SetRunCaseStatus writes the denormalized status mirror. Result saving is
// the only caller.
func SetRunCaseStatus(ctx context.Context, db DBTX, id, status string) error {
	ct, err := db.Exec(ctx, `UPDATE run_cases SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errNoRows
	}
	return nil
}
