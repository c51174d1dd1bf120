// Package aggregate owns the result set of one run: first-wins deduplication
// by address, latency-range filtering and deterministic top-N ranking.
package aggregate

import (
	"math"
	"sort"

	"github.com/nsweep/NSweep-core/probe"
)

// Set maps each address to its first-accepted probe result.
//
// Set is not safe for concurrent use: the scheduler routes all worker results
// through one channel into a single collector goroutine, which is the sole
// writer. Views handed out after the run are copies.
type Set struct {
	order   []string // insertion order, the dedup/ranking tie-break baseline
	results map[string]probe.Result

	minMS float64
	maxMS float64
}

func New() *Set {
	return &Set{
		results: make(map[string]probe.Result),
		minMS:   0,
		maxMS:   math.Inf(1),
	}
}

// Ingest records r unless its address was already recorded: first result wins,
// a later duplicate is a no-op. The task source is deduplicated by address, so
// duplicates here are synthetic (e.g. a hostname colliding with a literal) and
// the retained entry is determined by submission order, not completion order.
func (s *Set) Ingest(r probe.Result) {
	if _, dup := s.results[r.Address]; dup {
		return
	}
	s.results[r.Address] = r
	s.order = append(s.order, r.Address)
}

// Len returns the number of distinct addresses recorded.
func (s *Set) Len() int {
	return len(s.order)
}

// FilterByLatency restricts the success view to latencies inside the inclusive
// [min, max] range, in milliseconds. Entries outside the range land in the
// filtered-out bucket; they are not failures. Negative bounds mean unbounded.
func (s *Set) FilterByLatency(min, max float64) {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = math.Inf(1)
	}
	s.minMS = min
	s.maxMS = max
}

func (s *Set) inRange(r probe.Result) bool {
	ms := r.LatencyMS()
	return ms >= s.minMS && ms <= s.maxMS
}

// Successes returns the filtered success view in insertion order.
func (s *Set) Successes() []probe.Result {
	var out []probe.Result
	for _, addr := range s.order {
		if r := s.results[addr]; r.OK() && s.inRange(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilteredOut returns successful entries excluded by the latency bounds.
func (s *Set) FilteredOut() []probe.Result {
	var out []probe.Result
	for _, addr := range s.order {
		if r := s.results[addr]; r.OK() && !s.inRange(r) {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns every entry whose outcome is not success, in insertion
// order, each tagged with its outcome kind.
func (s *Set) Failures() []probe.Result {
	var out []probe.Result
	for _, addr := range s.order {
		if r := s.results[addr]; !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// TopN returns the n lowest-latency entries of the filtered success view,
// stably sorted ascending by latency with ties broken by address in lexical
// order. The ranking is reproducible for identical inputs. n <= 0 or n past
// the view length returns the whole ranked view.
func (s *Set) TopN(n int) []probe.Result {
	ranked := s.Successes()
	sort.SliceStable(ranked, func(i, j int) bool {
		li, lj := ranked[i].LatencyMS(), ranked[j].LatencyMS()
		if li != lj {
			return li < lj
		}
		return ranked[i].Address < ranked[j].Address
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
