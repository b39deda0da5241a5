package proptest

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing"
)

// T is the testing.T of one generated case.
type T struct {
	*testing.T
	// Seed reproduces this case alone.
	Seed int64
	// Case is the position of this case in the run.
	Case int

	tracker *tracker
}

// Sometimes records whether cond held at this call site for the current
// case, and returns cond.
//
// A run fails when a call site held in every case, since the cases never
// exercised the opposite branch, or in none of them.
func (t *T) Sometimes(cond bool) bool {
	t.Helper()
	if t.tracker == nil {
		return cond
	}
	_, file, line, _ := runtime.Caller(1)
	t.tracker.observe(fmt.Sprintf("%s:%d", file, line), t.Seed, cond)
	return cond
}

type callSite struct {
	hits   map[int64]struct{}
	misses map[int64]struct{}
}

type tracker struct {
	mu    sync.Mutex
	sites map[string]*callSite
}

func newTracker() *tracker {
	return &tracker{sites: map[string]*callSite{}}
}

func (tr *tracker) observe(site string, seed int64, cond bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	cs, ok := tr.sites[site]
	if !ok {
		cs = &callSite{hits: map[int64]struct{}{}, misses: map[int64]struct{}{}}
		tr.sites[site] = cs
	}
	if cond {
		cs.hits[seed] = struct{}{}
	} else {
		cs.misses[seed] = struct{}{}
	}
}

// failures lists the call sites that never varied over count cases.
func (tr *tracker) failures(count int) []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var lines []string
	for _, site := range slices.Sorted(maps.Keys(tr.sites)) {
		cs := tr.sites[site]
		switch {
		case len(cs.hits) == count:
			lines = append(lines, site+" -- all cases hit, try increasing count to find counterfactuals")
		case len(cs.hits) == 0:
			lines = append(lines, site+" -- no hits, try different seed or count")
		}
	}
	return lines
}

func (tr *tracker) check(t *testing.T, count int) {
	t.Helper()
	if lines := tr.failures(count); len(lines) > 0 {
		t.Errorf("sometimes failures\n%s", strings.Join(lines, "\n"))
	}
}
