// Package cases implements the case version store: every edit to a case
// writes a new immutable version, the case row keeps a mutable head pointer,
// and old versions are retained until the case itself is deleted.
package cases

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flarebyte/baldrick-casetrail/internal/dao/dbutil"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
)

// Input is the caller-supplied content for creating a case or a new version.
// A full copy of all fields is expected every time; versions are snapshots,
// not patches.
type Input struct {
	SuiteID          string
	Title            string
	QualityAttribute string
	CategoryLarge    string
	CategoryMedium   string
	Preconditions    string
	Priority         string
	Tags             []string
	Steps            []snapshot.StepInput
}

// Detail bundles a case with its version history (newest first, no steps).
type Detail struct {
	Case     *pgdao.Case
	Versions []pgdao.Version
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func New(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// CreateCase inserts the case row, writes version 1 with its steps and moves
// the head pointer to it, all in one transaction.
func (s *Service) CreateCase(ctx context.Context, projectID string, in Input, actor string) (*pgdao.Case, *pgdao.Version, error) {
	snap, steps, err := s.buildSnapshot(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	if err := validateSnapshot(snap, steps); err != nil {
		return nil, nil, err
	}
	c := &pgdao.Case{
		ProjectID:        projectID,
		SuiteID:          nullString(snap.SuiteID),
		Title:            snap.Title,
		QualityAttribute: snap.QualityAttribute,
		CategoryLarge:    snap.CategoryLarge,
		CategoryMedium:   snap.CategoryMedium,
		Preconditions:    snap.Preconditions,
		Priority:         snap.Priority,
		Tags:             snap.Tags,
		CreatedBy:        nullString(actor),
	}
	v := &pgdao.Version{VersionNo: 1, Snap: snap, Steps: steps, CreatedBy: nullString(actor)}
	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.InsertCase(ctx, c); err != nil {
			return err
		}
		v.CaseID = c.ID
		if err := tx.InsertVersion(ctx, v); err != nil {
			return err
		}
		return tx.UpdateCaseMirror(ctx, c.ID, v.ID, snap)
	})
	if err != nil {
		return nil, nil, dbutil.ErrWrap("case.create", err, dbutil.ParamSummary("title", in.Title))
	}
	c.CurrentVersionID = nullString(v.ID)
	s.log.Debug().Str("case_id", c.ID).Str("version_id", v.ID).Msg("case created")
	return c, v, nil
}

// CreateVersion writes version N+1 from a fresh snapshot of the input and
// mirrors the new content onto the case row. The version number is computed
// inside the transaction; caller-supplied numbers are never trusted.
func (s *Service) CreateVersion(ctx context.Context, caseID string, in Input, actor string) (*pgdao.Version, error) {
	snap, steps, err := s.buildSnapshot(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := validateSnapshot(snap, steps); err != nil {
		return nil, err
	}
	v := &pgdao.Version{CaseID: caseID, Snap: snap, Steps: steps, CreatedBy: nullString(actor)}
	err = s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetCase(ctx, caseID); err != nil {
			return err
		}
		n, err := tx.NextVersionNo(ctx, caseID)
		if err != nil {
			return err
		}
		v.VersionNo = n
		if err := tx.InsertVersion(ctx, v); err != nil {
			return err
		}
		return tx.UpdateCaseMirror(ctx, caseID, v.ID, snap)
	})
	if err != nil {
		return nil, dbutil.ErrWrap("case.create_version", err, dbutil.ParamSummary("case_id", caseID))
	}
	s.log.Debug().Str("case_id", caseID).Int("version_no", v.VersionNo).Msg("version created")
	return v, nil
}

// GetVersion returns the version with its steps sourced from the step rows.
func (s *Service) GetVersion(ctx context.Context, versionID string) (*pgdao.Version, error) {
	return s.store.GetVersion(ctx, versionID)
}

// GetCaseDetail returns the case row plus its version history, newest first.
func (s *Service) GetCaseDetail(ctx context.Context, caseID string) (*Detail, error) {
	c, err := s.store.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	versions, err := s.store.ListVersions(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return &Detail{Case: c, Versions: versions}, nil
}

func (s *Service) ListCases(ctx context.Context, projectID, suiteID string, limit, offset int) ([]pgdao.Case, error) {
	return s.store.ListCases(ctx, projectID, suiteID, limit, offset)
}

// FindCase looks a case up by its (project, suite, title) identity.
func (s *Service) FindCase(ctx context.Context, projectID, suiteID, title string) (*pgdao.Case, error) {
	return s.store.FindCase(ctx, projectID, suiteID, title)
}

// DeleteCase removes the case and, via cascade, its versions, steps and any
// run-cases with results that reference it in any run. Irreversible.
func (s *Service) DeleteCase(ctx context.Context, caseID string) error {
	n, err := s.store.DeleteCase(ctx, caseID)
	if err != nil {
		return dbutil.ErrWrap("case.delete", err, dbutil.ParamSummary("case_id", caseID))
	}
	if n == 0 {
		return ErrCaseNotFound
	}
	s.log.Info().Str("case_id", caseID).Msg("case deleted with run history")
	return nil
}

// Diff compares two versions field by field and step by step. Fails with
// ErrVersionNotFound when either id does not resolve.
func (s *Service) Diff(ctx context.Context, fromVersionID, toVersionID string) (snapshot.Diff, error) {
	from, err := s.store.GetVersion(ctx, fromVersionID)
	if err != nil {
		return snapshot.Diff{}, err
	}
	to, err := s.store.GetVersion(ctx, toVersionID)
	if err != nil {
		return snapshot.Diff{}, err
	}
	return snapshot.Compare(from.Snap, to.Snap, from.Steps, to.Steps), nil
}

// EnsureSuite resolves the suite with the given name, creating it if needed.
func (s *Service) EnsureSuite(ctx context.Context, projectID, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: suite name is required", ErrValidation)
	}
	return s.store.EnsureSuite(ctx, projectID, name)
}

func (s *Service) ListSuites(ctx context.Context, projectID string) ([]pgdao.Suite, error) {
	return s.store.ListSuites(ctx, projectID)
}

// buildSnapshot normalizes the input into the snapshot to be stored,
// resolving the suite name from the suite id at capture time.
func (s *Service) buildSnapshot(ctx context.Context, in Input) (snapshot.Snapshot, []snapshot.Step, error) {
	snap := snapshot.Normalize(snapshot.Snapshot{
		Title:            in.Title,
		QualityAttribute: in.QualityAttribute,
		CategoryLarge:    in.CategoryLarge,
		CategoryMedium:   in.CategoryMedium,
		Preconditions:    in.Preconditions,
		Priority:         in.Priority,
		Tags:             in.Tags,
		SuiteID:          in.SuiteID,
	})
	if snap.SuiteID != "" {
		name, err := s.store.SuiteName(ctx, snap.SuiteID)
		if err != nil {
			return snapshot.Snapshot{}, nil, err
		}
		snap.SuiteName = name
	}
	return snap, snapshot.NormalizeSteps(in.Steps), nil
}

// validateSnapshot rejects invalid input before any write happens. Zero steps
// are permitted here; requiring at least one is the boundary's concern.
func validateSnapshot(snap snapshot.Snapshot, steps []snapshot.Step) error {
	if snap.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	for _, st := range steps {
		if st.Expected == "" {
			return fmt.Errorf("%w: step %d: expected result is required", ErrValidation, st.StepNo)
		}
		if st.StepNo < 1 {
			return fmt.Errorf("%w: step number must be positive, got %d", ErrValidation, st.StepNo)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
