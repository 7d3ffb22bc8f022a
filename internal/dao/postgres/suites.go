package postgres

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

type Suite struct {
	ID        string
	ProjectID string
	Name      string
	Created   time.Time
}

// EnsureSuite returns the id of the suite with the given name in the project,
// creating it if necessary.
func EnsureSuite(ctx context.Context, db DBTX, projectID, name string) (string, error) {
	q := `INSERT INTO suites (id, project_id, name) VALUES ($1, $2, $3)
          ON CONFLICT (project_id, name) DO UPDATE SET name = EXCLUDED.name
          RETURNING id`
	var id string
	if err := db.QueryRow(ctx, q, ulid.Make().String(), projectID, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// SuiteName resolves a suite id to its current name.
func SuiteName(ctx context.Context, db DBTX, id string) (string, error) {
	var name string
	err := db.QueryRow(ctx, `SELECT name FROM suites WHERE id=$1`, id).Scan(&name)
	return name, err
}

func ListSuites(ctx context.Context, db DBTX, projectID string) ([]Suite, error) {
	rows, err := db.Query(ctx, `SELECT id, project_id, name, created FROM suites WHERE project_id=$1 ORDER BY name ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Suite
	for rows.Next() {
		var s Suite
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
