package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsweep/NSweep-core/probe"
)

func ok(addr string, latency time.Duration) probe.Result {
	return probe.Result{Address: addr, Method: probe.TCPProbe, Outcome: probe.Success, Latency: latency}
}

func failed(addr string, outcome probe.Outcome) probe.Result {
	return probe.Result{Address: addr, Method: probe.TCPProbe, Outcome: outcome}
}

// ──────── Ingest ────────

func TestIngest_FirstWinsIsIdempotent(t *testing.T) {
	s := New()
	first := ok("1.1.1.1", 10*time.Millisecond)
	second := ok("1.1.1.1", 99*time.Millisecond)

	s.Ingest(first)
	s.Ingest(second)

	require.Equal(t, 1, s.Len())
	got := s.Successes()
	require.Len(t, got, 1)
	assert.Equal(t, first, got[0], "the later result for a duplicate address must be discarded")
}

func TestIngest_FailureDoesNotDisplaceSuccess(t *testing.T) {
	s := New()
	s.Ingest(ok("1.1.1.1", 10*time.Millisecond))
	s.Ingest(failed("1.1.1.1", probe.Timeout))

	assert.Len(t, s.Successes(), 1)
	assert.Empty(t, s.Failures())
}

// ──────── FilterByLatency ────────

func TestFilterByLatency_InclusiveBounds(t *testing.T) {
	s := New()
	s.Ingest(ok("a.example", 5*time.Millisecond))
	s.Ingest(ok("b.example", 30*time.Millisecond))
	s.Ingest(ok("c.example", 60*time.Millisecond))

	s.FilterByLatency(10, 50)

	got := s.Successes()
	require.Len(t, got, 1)
	assert.Equal(t, "b.example", got[0].Address)

	// Filtered-out entries are their own bucket, not failures.
	assert.Len(t, s.FilteredOut(), 2)
	assert.Empty(t, s.Failures())

	top := s.TopN(5)
	require.Len(t, top, 1)
	assert.Equal(t, "b.example", top[0].Address)
}

func TestFilterByLatency_BoundaryValuesIncluded(t *testing.T) {
	s := New()
	s.Ingest(ok("lo", 10*time.Millisecond))
	s.Ingest(ok("hi", 50*time.Millisecond))

	s.FilterByLatency(10, 50)
	assert.Len(t, s.Successes(), 2)
}

func TestFilterByLatency_NegativeMeansUnbounded(t *testing.T) {
	s := New()
	s.Ingest(ok("a", 5*time.Millisecond))
	s.Ingest(ok("b", 500*time.Millisecond))

	s.FilterByLatency(-1, -1)
	assert.Len(t, s.Successes(), 2)
}

// ──────── TopN ────────

func TestTopN_AscendingWithLexicalTieBreak(t *testing.T) {
	s := New()
	s.Ingest(ok("zz.example", 20*time.Millisecond))
	s.Ingest(ok("aa.example", 20*time.Millisecond))
	s.Ingest(ok("mm.example", 5*time.Millisecond))

	top := s.TopN(3)
	require.Len(t, top, 3)
	assert.Equal(t, "mm.example", top[0].Address)
	assert.Equal(t, "aa.example", top[1].Address)
	assert.Equal(t, "zz.example", top[2].Address)
}

func TestTopN_PrefixLength(t *testing.T) {
	s := New()
	for i, addr := range []string{"a", "b", "c", "d"} {
		s.Ingest(ok(addr, time.Duration(i+1)*time.Millisecond))
	}

	assert.Len(t, s.TopN(2), 2)
	assert.Len(t, s.TopN(0), 4, "n <= 0 returns the whole view")
	assert.Len(t, s.TopN(10), 4, "n beyond the view returns the whole view")
}

func TestTopN_DeterministicAcrossCalls(t *testing.T) {
	s := New()
	s.Ingest(ok("b", 7*time.Millisecond))
	s.Ingest(ok("a", 7*time.Millisecond))
	s.Ingest(ok("c", 3*time.Millisecond))

	first := s.TopN(3)
	second := s.TopN(3)
	assert.Equal(t, first, second)
}

// ──────── Failures ────────

func TestFailures_TaggedWithOutcomeKind(t *testing.T) {
	s := New()
	s.Ingest(failed("t.example", probe.Timeout))
	s.Ingest(failed("r.example", probe.Refused))
	s.Ingest(failed("n.example", probe.NoPrivilege))
	s.Ingest(failed("d.example", probe.ResolutionFailed))
	s.Ingest(ok("ok.example", time.Millisecond))

	fails := s.Failures()
	require.Len(t, fails, 4)
	assert.Equal(t, probe.Timeout, fails[0].Outcome)
	assert.Equal(t, probe.Refused, fails[1].Outcome)
	assert.Equal(t, probe.NoPrivilege, fails[2].Outcome)
	assert.Equal(t, probe.ResolutionFailed, fails[3].Outcome)
}
