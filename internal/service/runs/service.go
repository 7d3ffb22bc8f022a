// Package runs implements run creation with permanent version binding and
// the execution/result engine. A run freezes each selected case at the head
// version in effect when the run is created; later case edits never touch a
// run already in flight.
package runs

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/flarebyte/baldrick-casetrail/internal/dao/dbutil"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
)

const (
	RunOpen   = "open"
	RunClosed = "closed"
)

// StepResultInput is one submitted step outcome.
type StepResultInput struct {
	StepNo  int
	Status  Status
	Comment string
}

// Detail bundles a run with its bound cases.
type Detail struct {
	Run   *pgdao.Run
	Cases []pgdao.RunCase
}

// Execution is everything needed to execute or review one run-case: the
// binding, the frozen version's steps, and the saved result if any.
type Execution struct {
	RunCase *pgdao.RunCase
	Steps   []snapshot.Step
	Result  *pgdao.Result
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func New(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// CreateRun creates the run and binds every requested case of the project to
// its current head version, permanently. A case without a head version is
// skipped rather than failing the whole run; this is the one documented
// silent skip in the engine. Everything happens in one transaction.
func (s *Service) CreateRun(ctx context.Context, projectID, name, releaseVersion string, caseIDs []string, actor string) (*Detail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: run name is required", ErrValidation)
	}
	r := &pgdao.Run{ProjectID: projectID, Name: name, ReleaseVersion: strings.TrimSpace(releaseVersion), CreatedBy: nullString(actor)}
	var bound []pgdao.RunCase
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.InsertRun(ctx, r); err != nil {
			return err
		}
		seen := make(map[string]bool, len(caseIDs))
		for _, caseID := range caseIDs {
			if seen[caseID] {
				continue
			}
			seen[caseID] = true
			versionID, ok, err := tx.CaseHead(ctx, projectID, caseID)
			if err != nil {
				return err
			}
			if !ok {
				s.log.Warn().Str("run_id", r.ID).Str("case_id", caseID).Msg("case has no head version, skipped")
				continue
			}
			rc := pgdao.RunCase{RunID: r.ID, CaseID: caseID, CaseVersionID: versionID}
			if err := tx.InsertRunCase(ctx, &rc); err != nil {
				return err
			}
			bound = append(bound, rc)
		}
		return nil
	})
	if err != nil {
		return nil, dbutil.ErrWrap("run.create", err, dbutil.ParamSummary("name", name), dbutil.ParamSummary("cases", caseIDs))
	}
	s.log.Info().Str("run_id", r.ID).Int("bound", len(bound)).Msg("run created")
	return &Detail{Run: r, Cases: bound}, nil
}

// SetStatus toggles the run's open/closed flag. No side effects on run-case
// rows.
func (s *Service) SetStatus(ctx context.Context, runID, status string) error {
	if status != RunOpen && status != RunClosed {
		return fmt.Errorf("%w: status must be %q or %q", ErrValidation, RunOpen, RunClosed)
	}
	return s.store.SetRunStatus(ctx, runID, status)
}

// DeleteRun removes the run and cascades its run-cases and results only;
// cases and versions outside this run are unaffected.
func (s *Service) DeleteRun(ctx context.Context, runID string) error {
	n, err := s.store.DeleteRun(ctx, runID)
	if err != nil {
		return dbutil.ErrWrap("run.delete", err, dbutil.ParamSummary("run_id", runID))
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *Service) GetRun(ctx context.Context, runID string) (*pgdao.Run, error) {
	return s.store.GetRun(ctx, runID)
}

func (s *Service) ListRuns(ctx context.Context, projectID string, limit, offset int) ([]pgdao.Run, error) {
	return s.store.ListRuns(ctx, projectID, limit, offset)
}

// GetRunDetail returns the run with its bound cases. The bound version ids
// reflect the binding at creation time regardless of later case edits.
func (s *Service) GetRunDetail(ctx context.Context, runID string) (*Detail, error) {
	r, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	rcs, err := s.store.ListRunCases(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &Detail{Run: r, Cases: rcs}, nil
}

// GetExecution returns the run-case with the frozen version's steps and the
// saved result, if any.
func (s *Service) GetExecution(ctx context.Context, runCaseID string) (*Execution, error) {
	rc, err := s.store.GetRunCase(ctx, runCaseID)
	if err != nil {
		return nil, err
	}
	steps, err := s.store.VersionSteps(ctx, rc.CaseVersionID)
	if err != nil {
		return nil, err
	}
	res, err := s.store.GetResult(ctx, runCaseID)
	if err != nil {
		return nil, err
	}
	return &Execution{RunCase: rc, Steps: steps, Result: res}, nil
}

// SaveResult upserts the result for a run-case: the result row is replaced,
// prior step results are deleted and replaced with the submitted set, and
// the run-case's denormalized status is set to the derived overall status.
// All three writes share one transaction; this is the only way a run-case's
// status ever changes after creation.
func (s *Service) SaveResult(ctx context.Context, runCaseID, comment string, steps []StepResultInput, actor string) (Status, string, error) {
	statuses := make([]Status, 0, len(steps))
	for _, sr := range steps {
		if !sr.Status.Valid() {
			return "", "", fmt.Errorf("%w: invalid step status %q", ErrValidation, sr.Status)
		}
		statuses = append(statuses, sr.Status)
	}
	overall := DeriveOverall(statuses)

	res := &pgdao.Result{RunCaseID: runCaseID, Status: string(overall), Comment: strings.TrimSpace(comment), ExecutedBy: nullString(actor)}
	err := s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetRunCase(ctx, runCaseID); err != nil {
			return err
		}
		if err := tx.UpsertResult(ctx, res); err != nil {
			return err
		}
		srs := make([]pgdao.StepResult, 0, len(steps))
		for _, sr := range steps {
			srs = append(srs, pgdao.StepResult{StepNo: sr.StepNo, Status: string(sr.Status), Comment: strings.TrimSpace(sr.Comment)})
		}
		if err := tx.ReplaceStepResults(ctx, res.ID, srs); err != nil {
			return err
		}
		return tx.SetRunCaseStatus(ctx, runCaseID, string(overall))
	})
	if err != nil {
		return "", "", dbutil.ErrWrap("result.save", err, dbutil.ParamSummary("run_case_id", runCaseID))
	}
	s.log.Debug().Str("run_case_id", runCaseID).Str("overall", string(overall)).Msg("result saved")
	return overall, res.ID, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
