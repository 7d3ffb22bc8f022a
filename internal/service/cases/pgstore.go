package cases

import (
	"context"
	"errors"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store over Postgres. The zero value is not usable; see
// NewPGStore.
type PGStore struct {
	db   pgdao.DBTX
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool, pool: pool}
}

// InTx begins a transaction and runs fn against a store bound to it. A store
// already inside a transaction just runs fn; nesting is not supported by the
// storage model and not needed by the services.
func (s *PGStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(&PGStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) InsertCase(ctx context.Context, c *pgdao.Case) error {
	return pgdao.InsertCase(ctx, s.db, c)
}

func (s *PGStore) GetCase(ctx context.Context, id string) (*pgdao.Case, error) {
	c, err := pgdao.GetCase(ctx, s.db, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	return c, err
}

func (s *PGStore) FindCase(ctx context.Context, projectID, suiteID, title string) (*pgdao.Case, error) {
	c, err := pgdao.FindCase(ctx, s.db, projectID, suiteID, title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	return c, err
}

func (s *PGStore) ListCases(ctx context.Context, projectID, suiteID string, limit, offset int) ([]pgdao.Case, error) {
	return pgdao.ListCases(ctx, s.db, projectID, suiteID, limit, offset)
}

func (s *PGStore) UpdateCaseMirror(ctx context.Context, caseID, versionID string, snap snapshot.Snapshot) error {
	err := pgdao.UpdateCaseMirror(ctx, s.db, caseID, versionID, snap)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCaseNotFound
	}
	return err
}

func (s *PGStore) DeleteCase(ctx context.Context, id string) (int64, error) {
	return pgdao.DeleteCase(ctx, s.db, id)
}

func (s *PGStore) NextVersionNo(ctx context.Context, caseID string) (int, error) {
	return pgdao.NextVersionNo(ctx, s.db, caseID)
}

func (s *PGStore) InsertVersion(ctx context.Context, v *pgdao.Version) error {
	return pgdao.InsertVersion(ctx, s.db, v)
}

func (s *PGStore) GetVersion(ctx context.Context, id string) (*pgdao.Version, error) {
	v, err := pgdao.GetVersion(ctx, s.db, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVersionNotFound
	}
	return v, err
}

func (s *PGStore) ListVersions(ctx context.Context, caseID string) ([]pgdao.Version, error) {
	return pgdao.ListVersions(ctx, s.db, caseID)
}

func (s *PGStore) EnsureSuite(ctx context.Context, projectID, name string) (string, error) {
	return pgdao.EnsureSuite(ctx, s.db, projectID, name)
}

func (s *PGStore) SuiteName(ctx context.Context, suiteID string) (string, error) {
	name, err := pgdao.SuiteName(ctx, s.db, suiteID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSuiteNotFound
	}
	return name, err
}

func (s *PGStore) ListSuites(ctx context.Context, projectID string) ([]pgdao.Suite, error) {
	return pgdao.ListSuites(ctx, s.db, projectID)
}
