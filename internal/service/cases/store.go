package cases

import (
	"context"
	"errors"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
)

// Errors returned by the case version store.
var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrSuiteNotFound   = errors.New("suite not found")
	ErrValidation      = errors.New("validation failed")
)

// Store is the persistence surface of the case version store. InTx runs fn
// against a transactional view of the same store; every mutation inside
// either commits as a whole or not at all.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	InsertCase(ctx context.Context, c *pgdao.Case) error
	GetCase(ctx context.Context, id string) (*pgdao.Case, error)
	FindCase(ctx context.Context, projectID, suiteID, title string) (*pgdao.Case, error)
	ListCases(ctx context.Context, projectID, suiteID string, limit, offset int) ([]pgdao.Case, error)
	UpdateCaseMirror(ctx context.Context, caseID, versionID string, snap snapshot.Snapshot) error
	DeleteCase(ctx context.Context, id string) (int64, error)

	NextVersionNo(ctx context.Context, caseID string) (int, error)
	InsertVersion(ctx context.Context, v *pgdao.Version) error
	GetVersion(ctx context.Context, id string) (*pgdao.Version, error)
	ListVersions(ctx context.Context, caseID string) ([]pgdao.Version, error)

	EnsureSuite(ctx context.Context, projectID, name string) (string, error)
	SuiteName(ctx context.Context, suiteID string) (string, error)
	ListSuites(ctx context.Context, projectID string) ([]pgdao.Suite, error)
}
