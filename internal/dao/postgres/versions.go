package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/oklog/ulid/v2"
)

// Version is one immutable snapshot of a case. Steps live in their own table
// keyed by version id; the snapshot column holds metadata only, so the two
// can never drift.
type Version struct {
	ID        string
	CaseID    string
	VersionNo int
	Snap      snapshot.Snapshot
	Steps     []snapshot.Step
	CreatedBy sql.NullString
	Created   time.Time
}

// NextVersionNo computes 1 + max existing version number for the case.
// Caller-supplied numbers are never trusted; run this inside the same
// transaction as the insert.
func NextVersionNo(ctx context.Context, db DBTX, caseID string) (int, error) {
	var n int
	err := db.QueryRow(ctx, `SELECT COALESCE(MAX(version_no), 0) + 1 FROM case_versions WHERE case_id=$1`, caseID).Scan(&n)
	return n, err
}

// InsertVersion writes the version row and its step rows. The id is assigned
// here when empty; v.VersionNo must already be resolved via NextVersionNo.
func InsertVersion(ctx context.Context, db DBTX, v *Version) error {
	if v.ID == "" {
		v.ID = ulid.Make().String()
	}
	snapJSON, err := json.Marshal(v.Snap)
	if err != nil {
		return err
	}
	q := `INSERT INTO case_versions (id, case_id, version_no, snapshot, created_by)
          VALUES ($1, $2, $3, $4, NULLIF($5,''))
          RETURNING created`
	if err := db.QueryRow(ctx, q, v.ID, v.CaseID, v.VersionNo, snapJSON, stringOrEmpty(v.CreatedBy)).Scan(&v.Created); err != nil {
		return err
	}
	for _, s := range v.Steps {
		if _, err := db.Exec(ctx,
			`INSERT INTO steps (version_id, step_no, action, input_data, expected) VALUES ($1, $2, $3, $4, $5)`,
			v.ID, s.StepNo, s.Action, s.InputData, s.Expected); err != nil {
			return err
		}
	}
	return nil
}

// GetVersion fetches a version with its steps reconstituted from the step
// table, sorted by step number.
func GetVersion(ctx context.Context, db DBTX, id string) (*Version, error) {
	q := `SELECT id, case_id, version_no, snapshot, created_by, created FROM case_versions WHERE id=$1`
	var v Version
	var snapJSON []byte
	if err := db.QueryRow(ctx, q, id).Scan(&v.ID, &v.CaseID, &v.VersionNo, &snapJSON, &v.CreatedBy, &v.Created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapJSON, &v.Snap); err != nil {
		return nil, err
	}
	steps, err := VersionSteps(ctx, db, v.ID)
	if err != nil {
		return nil, err
	}
	v.Steps = steps
	return &v, nil
}

// VersionSteps returns the authoritative step rows of a version, ascending by
// step number.
func VersionSteps(ctx context.Context, db DBTX, versionID string) ([]snapshot.Step, error) {
	rows, err := db.Query(ctx,
		`SELECT step_no, action, input_data, expected FROM steps WHERE version_id=$1 ORDER BY step_no ASC`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []snapshot.Step
	for rows.Next() {
		var s snapshot.Step
		if err := rows.Scan(&s.StepNo, &s.Action, &s.InputData, &s.Expected); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListVersions lists a case's versions newest first, without steps.
func ListVersions(ctx context.Context, db DBTX, caseID string) ([]Version, error) {
	rows, err := db.Query(ctx,
		`SELECT id, case_id, version_no, snapshot, created_by, created FROM case_versions WHERE case_id=$1 ORDER BY version_no DESC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Version
	for rows.Next() {
		var v Version
		var snapJSON []byte
		if err := rows.Scan(&v.ID, &v.CaseID, &v.VersionNo, &snapJSON, &v.CreatedBy, &v.Created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(snapJSON, &v.Snap); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
