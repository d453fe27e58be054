// Package catalog owns the in-memory HSN code table. The active table is an
// immutable Snapshot behind an atomic pointer: readers always see a fully
// formed catalog, reloads build a replacement off to the side and swap it in.
package catalog

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is one fully loaded catalog. Immutable once built.
type Snapshot struct {
	rows     map[string]string
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from ordered rows. Duplicate codes keep the
// first occurrence.
func NewSnapshot(rows []Row, loadedAt time.Time) *Snapshot {
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		if _, ok := m[r.Code]; ok {
			continue
		}
		m[r.Code] = r.Description
	}
	return &Snapshot{rows: m, loadedAt: loadedAt}
}

// Row is one validated (code, description) pair produced by a loader.
type Row struct {
	Code        string
	Description string
}

// Lookup resolves an exact code match.
func (s *Snapshot) Lookup(code string) (string, bool) {
	desc, ok := s.rows[code]
	return desc, ok
}

// Len reports the number of distinct codes.
func (s *Snapshot) Len() int { return len(s.rows) }

// LoadedAt reports when this snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// AttemptCount is one invalid-attempt counter entry.
type AttemptCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Store serves the active snapshot and tracks invalid-lookup attempts.
// The snapshot and the counter reset together under the reload mutex so a
// request never observes a half-swapped pair.
type Store struct {
	snap atomic.Pointer[Snapshot]

	reloadMu sync.Mutex // serializes Replace against itself

	attemptMu sync.Mutex
	attempts  map[string]int64
	order     []string // first-seen key order, breaks summary ties
}

func NewStore() *Store {
	return &Store{attempts: make(map[string]int64)}
}

// Snapshot returns the active catalog, or nil before the first load.
func (st *Store) Snapshot() *Snapshot { return st.snap.Load() }

// Lookup resolves code against the active snapshot.
func (st *Store) Lookup(code string) (string, bool) {
	snap := st.snap.Load()
	if snap == nil {
		return "", false
	}
	return snap.Lookup(code)
}

// Len reports the active snapshot's size, zero before the first load.
func (st *Store) Len() int {
	snap := st.snap.Load()
	if snap == nil {
		return 0
	}
	return snap.Len()
}

// Replace installs a new snapshot and clears the invalid-attempt counter.
// Only called with a fully built snapshot; concurrent readers keep serving
// the old one until the single pointer store below.
func (st *Store) Replace(snap *Snapshot) {
	st.reloadMu.Lock()
	defer st.reloadMu.Unlock()
	st.install(snap)
}

// install must be called with reloadMu held.
func (st *Store) install(snap *Snapshot) {
	st.snap.Store(snap)

	st.attemptMu.Lock()
	st.attempts = make(map[string]int64)
	st.order = nil
	st.attemptMu.Unlock()
}

// RecordInvalid bumps the counter for one (reason, code) rejection.
func (st *Store) RecordInvalid(reason, code string) {
	key := reason + " | " + code
	st.attemptMu.Lock()
	if _, seen := st.attempts[key]; !seen {
		st.order = append(st.order, key)
	}
	st.attempts[key]++
	st.attemptMu.Unlock()
}

// InvalidSummary returns a point-in-time copy of the counter, sorted by
// count descending with first-seen key order breaking ties.
func (st *Store) InvalidSummary() []AttemptCount {
	st.attemptMu.Lock()
	out := make([]AttemptCount, 0, len(st.order))
	for _, key := range st.order {
		out = append(out, AttemptCount{Key: key, Count: st.attempts[key]})
	}
	st.attemptMu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
