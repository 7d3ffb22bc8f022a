// Package memstore is an in-memory implementation of the service store
// interfaces, mirroring the Postgres semantics closely enough for service
// tests: cascading deletes, upsert-replace results, transactional rollback
// on error.
package memstore

import (
	"sort"
	"sync"
	"time"

	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/oklog/ulid/v2"
)

// Store holds all state behind a single mutex. Use Cases/Runs/Reports to get
// views satisfying the respective service store interfaces.
type Store struct {
	mu       sync.Mutex
	suites   map[string]pgdao.Suite
	cases    map[string]pgdao.Case
	versions map[string]pgdao.Version
	runs     map[string]pgdao.Run
	runCases map[string]pgdao.RunCase
	results  map[string]pgdao.Result // keyed by run-case id
}

func New() *Store {
	return &Store{
		suites:   map[string]pgdao.Suite{},
		cases:    map[string]pgdao.Case{},
		versions: map[string]pgdao.Version{},
		runs:     map[string]pgdao.Run{},
		runCases: map[string]pgdao.RunCase{},
		results:  map[string]pgdao.Result{},
	}
}

type state struct {
	suites   map[string]pgdao.Suite
	cases    map[string]pgdao.Case
	versions map[string]pgdao.Version
	runs     map[string]pgdao.Run
	runCases map[string]pgdao.RunCase
	results  map[string]pgdao.Result
}

func (s *Store) snapshotState() state {
	return state{
		suites:   cloneMap(s.suites),
		cases:    cloneMap(s.cases),
		versions: cloneVersions(s.versions),
		runs:     cloneMap(s.runs),
		runCases: cloneMap(s.runCases),
		results:  cloneResults(s.results),
	}
}

func (s *Store) restoreState(st state) {
	s.suites = st.suites
	s.cases = st.cases
	s.versions = st.versions
	s.runs = st.runs
	s.runCases = st.runCases
	s.results = st.results
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneVersions(m map[string]pgdao.Version) map[string]pgdao.Version {
	out := make(map[string]pgdao.Version, len(m))
	for k, v := range m {
		v.Steps = append(v.Steps[:0:0], v.Steps...)
		v.Snap.Tags = append(v.Snap.Tags[:0:0], v.Snap.Tags...)
		out[k] = v
	}
	return out
}

func cloneResults(m map[string]pgdao.Result) map[string]pgdao.Result {
	out := make(map[string]pgdao.Result, len(m))
	for k, r := range m {
		r.StepResults = append(r.StepResults[:0:0], r.StepResults...)
		out[k] = r
	}
	return out
}

func newID() string { return ulid.Make().String() }

func now() time.Time { return time.Now().UTC() }

// deleteCaseCascade removes a case with its versions and every run-case
// (plus results) referencing it, across all runs. Caller holds the lock.
func (s *Store) deleteCaseCascade(caseID string) int64 {
	if _, ok := s.cases[caseID]; !ok {
		return 0
	}
	delete(s.cases, caseID)
	for id, v := range s.versions {
		if v.CaseID == caseID {
			delete(s.versions, id)
		}
	}
	for id, rc := range s.runCases {
		if rc.CaseID == caseID {
			delete(s.runCases, id)
			delete(s.results, id)
		}
	}
	return 1
}

// deleteRunCascade removes a run with its run-cases and results only.
// Caller holds the lock.
func (s *Store) deleteRunCascade(runID string) int64 {
	if _, ok := s.runs[runID]; !ok {
		return 0
	}
	delete(s.runs, runID)
	for id, rc := range s.runCases {
		if rc.RunID == runID {
			delete(s.runCases, id)
			delete(s.results, id)
		}
	}
	return 1
}

func sortedRunCases(rcs []pgdao.RunCase) []pgdao.RunCase {
	sort.Slice(rcs, func(i, j int) bool {
		if rcs[i].CaseTitle != rcs[j].CaseTitle {
			return rcs[i].CaseTitle < rcs[j].CaseTitle
		}
		return rcs[i].ID < rcs[j].ID
	})
	return rcs
}
