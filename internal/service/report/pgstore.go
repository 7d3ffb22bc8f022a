package report

import (
	"context"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store over Postgres. Reads only; no transactions
// needed.
type PGStore struct {
	db pgdao.DBTX
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool}
}

func (s *PGStore) RunCaseStatusCounts(ctx context.Context, projectID string) ([]pgdao.StatusCount, error) {
	return pgdao.RunCaseStatusCounts(ctx, s.db, projectID)
}

func (s *PGStore) FailingRunCases(ctx context.Context, projectID string) ([]pgdao.FailureRow, error) {
	return pgdao.FailingRunCases(ctx, s.db, projectID)
}

func (s *PGStore) CasesByPriority(ctx context.Context, projectID string) ([]pgdao.PriorityCount, error) {
	return pgdao.CasesByPriority(ctx, s.db, projectID)
}
