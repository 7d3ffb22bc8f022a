package postgres

import (
	"context"
)

// EnsureSchema creates the required tables if they do not exist.
//
// Cascade rules carry the delete semantics: removing a case removes its
// versions, steps and any run-cases (with their results) that reference it in
// any run; removing a run removes only that run's run-cases and results.
func EnsureSchema(ctx context.Context, db DBTX) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS suites (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL,
            name TEXT NOT NULL,
            created TIMESTAMPTZ NOT NULL DEFAULT now(),
            UNIQUE (project_id, name)
        )`,
		// current_version_id has no FK on purpose: it points into
		// case_versions which itself points back here.
		`CREATE TABLE IF NOT EXISTS cases (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL,
            suite_id TEXT REFERENCES suites(id),
            title TEXT NOT NULL,
            quality_attribute TEXT NOT NULL DEFAULT '',
            category_large TEXT NOT NULL DEFAULT '',
            category_medium TEXT NOT NULL DEFAULT '',
            preconditions TEXT NOT NULL DEFAULT '',
            priority TEXT NOT NULL DEFAULT '',
            tags JSONB NOT NULL DEFAULT '[]'::jsonb,
            current_version_id TEXT,
            created_by TEXT,
            created TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_cases_project ON cases(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_suite ON cases(suite_id)`,
		`CREATE TABLE IF NOT EXISTS case_versions (
            id TEXT PRIMARY KEY,
            case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
            version_no INT NOT NULL CHECK (version_no >= 1),
            snapshot JSONB NOT NULL,
            created_by TEXT,
            created TIMESTAMPTZ NOT NULL DEFAULT now(),
            UNIQUE (case_id, version_no)
        )`,
		`CREATE TABLE IF NOT EXISTS steps (
            version_id TEXT NOT NULL REFERENCES case_versions(id) ON DELETE CASCADE,
            step_no INT NOT NULL,
            action TEXT NOT NULL DEFAULT '',
            input_data TEXT NOT NULL DEFAULT '',
            expected TEXT NOT NULL,
            PRIMARY KEY (version_id, step_no)
        )`,
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            project_id TEXT NOT NULL,
            name TEXT NOT NULL,
            release_version TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'open',
            created_by TEXT,
            created TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project_id)`,
		`CREATE TABLE IF NOT EXISTS run_cases (
            id TEXT PRIMARY KEY,
            run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
            case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
            case_version_id TEXT NOT NULL REFERENCES case_versions(id) ON DELETE CASCADE,
            status TEXT NOT NULL DEFAULT 'untested',
            UNIQUE (run_id, case_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_run_cases_run ON run_cases(run_id)`,
		`CREATE TABLE IF NOT EXISTS results (
            id TEXT PRIMARY KEY,
            run_case_id TEXT NOT NULL UNIQUE REFERENCES run_cases(id) ON DELETE CASCADE,
            status TEXT NOT NULL,
            comment TEXT NOT NULL DEFAULT '',
            executed_by TEXT,
            executed TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS step_results (
            result_id TEXT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
            step_no INT NOT NULL,
            status TEXT NOT NULL,
            comment TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (result_id, step_no)
        )`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
