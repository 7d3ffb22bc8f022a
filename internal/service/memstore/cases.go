package memstore

import (
	"context"
	"database/sql"
	"sort"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
)

// CaseStore adapts Store to the cases.Store interface.
type CaseStore struct{ s *Store }

func (s *Store) Cases() *CaseStore { return &CaseStore{s: s} }

func (c *CaseStore) InTx(ctx context.Context, fn func(cases.Store) error) error {
	c.s.mu.Lock()
	backup := c.s.snapshotState()
	c.s.mu.Unlock()
	if err := fn(c); err != nil {
		c.s.mu.Lock()
		c.s.restoreState(backup)
		c.s.mu.Unlock()
		return err
	}
	return nil
}

func (c *CaseStore) InsertCase(ctx context.Context, cs *pgdao.Case) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if cs.ID == "" {
		cs.ID = newID()
	}
	cs.Created = now()
	cs.Updated = cs.Created
	c.s.cases[cs.ID] = *cs
	return nil
}

func (c *CaseStore) GetCase(ctx context.Context, id string) (*pgdao.Case, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cs, ok := c.s.cases[id]
	if !ok {
		return nil, cases.ErrCaseNotFound
	}
	return &cs, nil
}

func (c *CaseStore) FindCase(ctx context.Context, projectID, suiteID, title string) (*pgdao.Case, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, cs := range c.s.cases {
		if cs.ProjectID == projectID && cs.SuiteID.String == suiteID && cs.Title == title {
			out := cs
			return &out, nil
		}
	}
	return nil, cases.ErrCaseNotFound
}

func (c *CaseStore) ListCases(ctx context.Context, projectID, suiteID string, limit, offset int) ([]pgdao.Case, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []pgdao.Case
	for _, cs := range c.s.cases {
		if cs.ProjectID != projectID {
			continue
		}
		if suiteID != "" && cs.SuiteID.String != suiteID {
			continue
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (c *CaseStore) UpdateCaseMirror(ctx context.Context, caseID, versionID string, snap snapshot.Snapshot) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cs, ok := c.s.cases[caseID]
	if !ok {
		return cases.ErrCaseNotFound
	}
	cs.SuiteID = sql.NullString{String: snap.SuiteID, Valid: snap.SuiteID != ""}
	cs.Title = snap.Title
	cs.QualityAttribute = snap.QualityAttribute
	cs.CategoryLarge = snap.CategoryLarge
	cs.CategoryMedium = snap.CategoryMedium
	cs.Preconditions = snap.Preconditions
	cs.Priority = snap.Priority
	cs.Tags = append(snap.Tags[:0:0], snap.Tags...)
	cs.CurrentVersionID = sql.NullString{String: versionID, Valid: true}
	cs.Updated = now()
	c.s.cases[caseID] = cs
	return nil
}

func (c *CaseStore) DeleteCase(ctx context.Context, id string) (int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.s.deleteCaseCascade(id), nil
}

func (c *CaseStore) NextVersionNo(ctx context.Context, caseID string) (int, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	max := 0
	for _, v := range c.s.versions {
		if v.CaseID == caseID && v.VersionNo > max {
			max = v.VersionNo
		}
	}
	return max + 1, nil
}

func (c *CaseStore) InsertVersion(ctx context.Context, v *pgdao.Version) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if v.ID == "" {
		v.ID = newID()
	}
	v.Created = now()
	c.s.versions[v.ID] = *v
	return nil
}

func (c *CaseStore) GetVersion(ctx context.Context, id string) (*pgdao.Version, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	v, ok := c.s.versions[id]
	if !ok {
		return nil, cases.ErrVersionNotFound
	}
	v.Steps = append(v.Steps[:0:0], v.Steps...)
	sort.Slice(v.Steps, func(i, j int) bool { return v.Steps[i].StepNo < v.Steps[j].StepNo })
	return &v, nil
}

func (c *CaseStore) ListVersions(ctx context.Context, caseID string) ([]pgdao.Version, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []pgdao.Version
	for _, v := range c.s.versions {
		if v.CaseID == caseID {
			v.Steps = nil
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNo > out[j].VersionNo })
	return out, nil
}

func (c *CaseStore) EnsureSuite(ctx context.Context, projectID, name string) (string, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, su := range c.s.suites {
		if su.ProjectID == projectID && su.Name == name {
			return su.ID, nil
		}
	}
	su := pgdao.Suite{ID: newID(), ProjectID: projectID, Name: name, Created: now()}
	c.s.suites[su.ID] = su
	return su.ID, nil
}

func (c *CaseStore) SuiteName(ctx context.Context, suiteID string) (string, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	su, ok := c.s.suites[suiteID]
	if !ok {
		return "", cases.ErrSuiteNotFound
	}
	return su.Name, nil
}

func (c *CaseStore) ListSuites(ctx context.Context, projectID string) ([]pgdao.Suite, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []pgdao.Suite
	for _, su := range c.s.suites {
		if su.ProjectID == projectID {
			out = append(out, su)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
