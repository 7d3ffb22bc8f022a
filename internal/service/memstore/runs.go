package memstore

import (
	"context"
	"sort"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
)

// RunStore adapts Store to the runs.Store interface.
type RunStore struct{ s *Store }

func (s *Store) Runs() *RunStore { return &RunStore{s: s} }

func (r *RunStore) InTx(ctx context.Context, fn func(runs.Store) error) error {
	r.s.mu.Lock()
	backup := r.s.snapshotState()
	r.s.mu.Unlock()
	if err := fn(r); err != nil {
		r.s.mu.Lock()
		r.s.restoreState(backup)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func (r *RunStore) InsertRun(ctx context.Context, run *pgdao.Run) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if run.ID == "" {
		run.ID = newID()
	}
	run.Status = runs.RunOpen
	run.Created = now()
	r.s.runs[run.ID] = *run
	return nil
}

func (r *RunStore) GetRun(ctx context.Context, id string) (*pgdao.Run, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	run, ok := r.s.runs[id]
	if !ok {
		return nil, runs.ErrRunNotFound
	}
	return &run, nil
}

func (r *RunStore) ListRuns(ctx context.Context, projectID string, limit, offset int) ([]pgdao.Run, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []pgdao.Run
	for _, run := range r.s.runs {
		if run.ProjectID == projectID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *RunStore) SetRunStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	run, ok := r.s.runs[id]
	if !ok {
		return runs.ErrRunNotFound
	}
	run.Status = status
	r.s.runs[id] = run
	return nil
}

func (r *RunStore) DeleteRun(ctx context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteRunCascade(id), nil
}

func (r *RunStore) CaseHead(ctx context.Context, projectID, caseID string) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, ok := r.s.cases[caseID]
	if !ok || cs.ProjectID != projectID || !cs.CurrentVersionID.Valid || cs.CurrentVersionID.String == "" {
		return "", false, nil
	}
	return cs.CurrentVersionID.String, true, nil
}

func (r *RunStore) InsertRunCase(ctx context.Context, rc *pgdao.RunCase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rc.ID == "" {
		rc.ID = newID()
	}
	rc.Status = string(runs.StatusUntested)
	if cs, ok := r.s.cases[rc.CaseID]; ok {
		rc.CaseTitle = cs.Title
	}
	if v, ok := r.s.versions[rc.CaseVersionID]; ok {
		rc.VersionNo = v.VersionNo
	}
	r.s.runCases[rc.ID] = *rc
	return nil
}

func (r *RunStore) GetRunCase(ctx context.Context, id string) (*pgdao.RunCase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.runCases[id]
	if !ok {
		return nil, runs.ErrRunCaseNotFound
	}
	return &rc, nil
}

func (r *RunStore) ListRunCases(ctx context.Context, runID string) ([]pgdao.RunCase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []pgdao.RunCase
	for _, rc := range r.s.runCases {
		if rc.RunID == runID {
			out = append(out, rc)
		}
	}
	return sortedRunCases(out), nil
}

func (r *RunStore) SetRunCaseStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.runCases[id]
	if !ok {
		return runs.ErrRunCaseNotFound
	}
	rc.Status = status
	r.s.runCases[id] = rc
	return nil
}

func (r *RunStore) VersionSteps(ctx context.Context, versionID string) ([]snapshot.Step, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.versions[versionID]
	if !ok {
		return nil, nil
	}
	steps := append(v.Steps[:0:0], v.Steps...)
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepNo < steps[j].StepNo })
	return steps, nil
}

func (r *RunStore) UpsertResult(ctx context.Context, res *pgdao.Result) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if prev, ok := r.s.results[res.RunCaseID]; ok {
		res.ID = prev.ID
		res.StepResults = prev.StepResults
	} else if res.ID == "" {
		res.ID = newID()
	}
	res.Executed = now()
	r.s.results[res.RunCaseID] = *res
	return nil
}

func (r *RunStore) ReplaceStepResults(ctx context.Context, resultID string, srs []pgdao.StepResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for key, res := range r.s.results {
		if res.ID == resultID {
			res.StepResults = append([]pgdao.StepResult(nil), srs...)
			r.s.results[key] = res
			return nil
		}
	}
	return nil
}

func (r *RunStore) GetResult(ctx context.Context, runCaseID string) (*pgdao.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.results[runCaseID]
	if !ok {
		return nil, nil
	}
	res.StepResults = append(res.StepResults[:0:0], res.StepResults...)
	sort.Slice(res.StepResults, func(i, j int) bool { return res.StepResults[i].StepNo < res.StepResults[j].StepNo })
	return &res, nil
}
