package runs

import (
	"context"
	"errors"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store over Postgres.
type PGStore struct {
	db   pgdao.DBTX
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool, pool: pool}
}

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

func (s *PGStore) InsertRun(ctx context.Context, r *pgdao.Run) error {
	return pgdao.InsertRun(ctx, s.db, r)
}

func (s *PGStore) GetRun(ctx context.Context, id string) (*pgdao.Run, error) {
	r, err := pgdao.GetRun(ctx, s.db, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return r, err
}

func (s *PGStore) ListRuns(ctx context.Context, projectID string, limit, offset int) ([]pgdao.Run, error) {
	return pgdao.ListRuns(ctx, s.db, projectID, limit, offset)
}

func (s *PGStore) SetRunStatus(ctx context.Context, id, status string) error {
	err := pgdao.SetRunStatus(ctx, s.db, id, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRunNotFound
	}
	return err
}

func (s *PGStore) DeleteRun(ctx context.Context, id string) (int64, error) {
	return pgdao.DeleteRun(ctx, s.db, id)
}

func (s *PGStore) CaseHead(ctx context.Context, projectID, caseID string) (string, bool, error) {
	return pgdao.CaseHead(ctx, s.db, projectID, caseID)
}

func (s *PGStore) InsertRunCase(ctx context.Context, rc *pgdao.RunCase) error {
	return pgdao.InsertRunCase(ctx, s.db, rc)
}

func (s *PGStore) GetRunCase(ctx context.Context, id string) (*pgdao.RunCase, error) {
	rc, err := pgdao.GetRunCase(ctx, s.db, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunCaseNotFound
	}
	return rc, err
}

func (s *PGStore) ListRunCases(ctx context.Context, runID string) ([]pgdao.RunCase, error) {
	return pgdao.ListRunCases(ctx, s.db, runID)
}

func (s *PGStore) SetRunCaseStatus(ctx context.Context, id, status string) error {
	err := pgdao.SetRunCaseStatus(ctx, s.db, id, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRunCaseNotFound
	}
	return err
}

func (s *PGStore) VersionSteps(ctx context.Context, versionID string) ([]snapshot.Step, error) {
	return pgdao.VersionSteps(ctx, s.db, versionID)
}

func (s *PGStore) UpsertResult(ctx context.Context, r *pgdao.Result) error {
	return pgdao.UpsertResult(ctx, s.db, r)
}

func (s *PGStore) ReplaceStepResults(ctx context.Context, resultID string, srs []pgdao.StepResult) error {
	return pgdao.ReplaceStepResults(ctx, s.db, resultID, srs)
}

func (s *PGStore) GetResult(ctx context.Context, runCaseID string) (*pgdao.Result, error) {
	return pgdao.GetResult(ctx, s.db, runCaseID)
}
