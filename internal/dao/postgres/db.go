package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// DBTX is the subset of pgx operations the DAO functions need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same functions run standalone
// or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxRows narrows pgx.Rows to what the list helpers use.
type pgxRows interface {
	Next() bool
	Scan(...any) error
	Close()
	Err() error
}

// errNoRows mirrors pgx.ErrNoRows for write paths that detect a missing row
// via RowsAffected instead of a scan.
var errNoRows = pgx.ErrNoRows

// OpenApp opens a pgx pool using the app role credentials.
func OpenApp(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pg := cfg.Postgres
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.App.User, pg.App.Password, pg.DBName, pg.SSLMode)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// OpenAdmin opens a database/sql handle using the admin role, connected to
// the named database. Used only by `db init` to create the database and the
// app role; regular traffic goes through OpenApp.
func OpenAdmin(ctx context.Context, cfg config.Config, dbName string) (*sql.DB, error) {
	pg := cfg.Postgres
	user := pg.Admin.User
	pass := pg.Admin.Password
	if user == "" {
		user = pg.App.User
		pass = pg.App.Password
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, user, pass, dbName, pg.SSLMode)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctxPing); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenAdminPool opens a pgx pool on the target database using the admin
// role, for schema creation during `db init`.
func OpenAdminPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pg := cfg.Postgres
	user := pg.Admin.User
	pass := pg.Admin.Password
	if user == "" {
		user = pg.App.User
		pass = pg.App.Password
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, user, pass, pg.DBName, pg.SSLMode)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
