package runs

import (
	"context"
	"errors"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrRunCaseNotFound = errors.New("run case not found")
	ErrValidation      = errors.New("validation failed")
)

// Store is the persistence surface of the run binder and result engine.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	InsertRun(ctx context.Context, r *pgdao.Run) error
	GetRun(ctx context.Context, id string) (*pgdao.Run, error)
	ListRuns(ctx context.Context, projectID string, limit, offset int) ([]pgdao.Run, error)
	SetRunStatus(ctx context.Context, id, status string) error
	DeleteRun(ctx context.Context, id string) (int64, error)

	// CaseHead resolves a case's current head version within a project;
	// ok is false when the case is absent or has no head yet.
	CaseHead(ctx context.Context, projectID, caseID string) (versionID string, ok bool, err error)
	InsertRunCase(ctx context.Context, rc *pgdao.RunCase) error
	GetRunCase(ctx context.Context, id string) (*pgdao.RunCase, error)
	ListRunCases(ctx context.Context, runID string) ([]pgdao.RunCase, error)
	SetRunCaseStatus(ctx context.Context, id, status string) error
	VersionSteps(ctx context.Context, versionID string) ([]snapshot.Step, error)

	UpsertResult(ctx context.Context, r *pgdao.Result) error
	ReplaceStepResults(ctx context.Context, resultID string, srs []pgdao.StepResult) error
	GetResult(ctx context.Context, runCaseID string) (*pgdao.Result, error)
}
