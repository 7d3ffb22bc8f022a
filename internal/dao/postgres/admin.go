package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Admin-path DDL used only by `db init`. Role and database names cannot be
// bound as parameters, so identifiers go through pq quoting.

// EnsureRole creates a login role if absent, otherwise resets its password.
func EnsureRole(ctx context.Context, db *sql.DB, name, password string) error {
	if name == "" {
		return fmt.Errorf("role name is empty")
	}
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pg_roles WHERE rolname=$1)`, name).Scan(&exists); err != nil {
		return err
	}
	stmt := fmt.Sprintf("CREATE ROLE %s LOGIN PASSWORD %s", pq.QuoteIdentifier(name), pq.QuoteLiteral(password))
	if exists {
		stmt = fmt.Sprintf("ALTER ROLE %s WITH LOGIN PASSWORD %s", pq.QuoteIdentifier(name), pq.QuoteLiteral(password))
	}
	_, err := db.ExecContext(ctx, stmt)
	return err
}

// EnsureDatabase creates the database with the given owner if it does not
// exist. CREATE DATABASE cannot run inside a transaction; plain Exec only.
func EnsureDatabase(ctx context.Context, db *sql.DB, name, owner string) error {
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname=$1)`, name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	stmt := fmt.Sprintf("CREATE DATABASE %s OWNER %s", pq.QuoteIdentifier(name), pq.QuoteIdentifier(owner))
	_, err := db.ExecContext(ctx, stmt)
	return err
}

// GrantConnect grants CONNECT on the database to the role.
func GrantConnect(ctx context.Context, db *sql.DB, dbName, role string) error {
	stmt := fmt.Sprintf("GRANT CONNECT ON DATABASE %s TO %s", pq.QuoteIdentifier(dbName), pq.QuoteIdentifier(role))
	_, err := db.ExecContext(ctx, stmt)
	return err
}

// GrantRuntimePrivileges grants the app role DML on everything in public.
// Run after EnsureSchema so new tables are covered.
func GrantRuntimePrivileges(ctx context.Context, db DBTX, role string) error {
	stmts := []string{
		fmt.Sprintf("GRANT USAGE ON SCHEMA public TO %s", pq.QuoteIdentifier(role)),
		fmt.Sprintf("GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO %s", pq.QuoteIdentifier(role)),
		fmt.Sprintf("ALTER DEFAULT PRIVILEGES IN SCHEMA public GRANT SELECT, INSERT, UPDATE, DELETE ON TABLES TO %s", pq.QuoteIdentifier(role)),
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
