package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/oklog/ulid/v2"
)

// Case is the mutable head row of a test case. Its metadata columns mirror
// the latest version's snapshot; CurrentVersionID is the head pointer.
type Case struct {
	ID               string
	ProjectID        string
	SuiteID          sql.NullString
	Title            string
	QualityAttribute string
	CategoryLarge    string
	CategoryMedium   string
	Preconditions    string
	Priority         string
	Tags             []string
	CurrentVersionID sql.NullString
	CreatedBy        sql.NullString
	Created          time.Time
	Updated          time.Time
}

const caseColumns = `id, project_id, suite_id, title, quality_attribute, category_large, category_medium,
                     preconditions, priority, tags, current_version_id, created_by, created, updated`

// InsertCase inserts the case row with a null head pointer. The id is
// assigned here when empty.
func InsertCase(ctx context.Context, db DBTX, c *Case) error {
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	tagsJSON, _ := json.Marshal(tagsOrEmpty(c.Tags))
	q := `INSERT INTO cases (id, project_id, suite_id, title, quality_attribute, category_large, category_medium,
                             preconditions, priority, tags, created_by)
          VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, $7, $8, $9, $10, NULLIF($11,''))
          RETURNING created, updated`
	return db.QueryRow(ctx, q,
		c.ID, c.ProjectID, stringOrEmpty(c.SuiteID), c.Title, c.QualityAttribute, c.CategoryLarge, c.CategoryMedium,
		c.Preconditions, c.Priority, tagsJSON, stringOrEmpty(c.CreatedBy),
	).Scan(&c.Created, &c.Updated)
}

func GetCase(ctx context.Context, db DBTX, id string) (*Case, error) {
	q := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	return scanCase(db.QueryRow(ctx, q, id))
}

// FindCase looks a case up by its (project, suite, title) identity, the key
// the CSV importer deduplicates on.
func FindCase(ctx context.Context, db DBTX, projectID, suiteID, title string) (*Case, error) {
	q := `SELECT ` + caseColumns + ` FROM cases WHERE project_id=$1 AND suite_id IS NOT DISTINCT FROM NULLIF($2,'') AND title=$3`
	return scanCase(db.QueryRow(ctx, q, projectID, suiteID, title))
}

func ListCases(ctx context.Context, db DBTX, projectID, suiteID string, limit, offset int) ([]Case, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var rows pgxRows
	var err error
	if suiteID == "" {
		rows, err = db.Query(ctx, `SELECT `+caseColumns+` FROM cases WHERE project_id=$1 ORDER BY created DESC LIMIT $2 OFFSET $3`,
			projectID, limit, offset)
	} else {
		rows, err = db.Query(ctx, `SELECT `+caseColumns+` FROM cases WHERE project_id=$1 AND suite_id=$2 ORDER BY created DESC LIMIT $3 OFFSET $4`,
			projectID, suiteID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateCaseMirror moves the head pointer to versionID and rewrites the
// mutable metadata columns from the new snapshot. Old version rows are
// untouched by design.
func UpdateCaseMirror(ctx context.Context, db DBTX, caseID, versionID string, snap snapshot.Snapshot) error {
	tagsJSON, _ := json.Marshal(tagsOrEmpty(snap.Tags))
	q := `UPDATE cases SET
            suite_id = NULLIF($2,''),
            title = $3,
            quality_attribute = $4,
            category_large = $5,
            category_medium = $6,
            preconditions = $7,
            priority = $8,
            tags = $9,
            current_version_id = $10,
            updated = now()
          WHERE id=$1`
	ct, err := db.Exec(ctx, q, caseID, snap.SuiteID, snap.Title, snap.QualityAttribute, snap.CategoryLarge,
		snap.CategoryMedium, snap.Preconditions, snap.Priority, tagsJSON, versionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errNoRows
	}
	return nil
}

// DeleteCase removes the case row; versions, steps, run-cases and results go
// with it via foreign-key cascades.
func DeleteCase(ctx context.Context, db DBTX, id string) (int64, error) {
	ct, err := db.Exec(ctx, `DELETE FROM cases WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

type rowScanner interface{ Scan(...any) error }

func scanCase(r rowScanner) (*Case, error) {
	var c Case
	var tagsJSON []byte
	if err := r.Scan(&c.ID, &c.ProjectID, &c.SuiteID, &c.Title, &c.QualityAttribute, &c.CategoryLarge, &c.CategoryMedium,
		&c.Preconditions, &c.Priority, &tagsJSON, &c.CurrentVersionID, &c.CreatedBy, &c.Created, &c.Updated); err != nil {
		return nil, err
	}
	if len(tagsJSON) > 0 {
		_ = json.Unmarshal(tagsJSON, &c.Tags)
	}
	if len(c.Tags) == 0 {
		c.Tags = nil
	}
	return &c, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func stringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
