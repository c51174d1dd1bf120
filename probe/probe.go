package probe

import (
	"context"
	"errors"
	"math"
	"net/netip"
	"time"
)

var (
	ErrInvalidMethod = errors.New("invalid probe method")
)

// Method selects the wire-level strategy used to measure a target.
type Method string

const (
	TCPProbe  Method = "tcp"
	UDPProbe  Method = "udp"
	ICMPProbe Method = "ping"
)

// Valid reports whether m names a known probe method. Unknown methods are a
// startup-time error; they must be rejected before any Task is created.
func (m Method) Valid() bool {
	switch m {
	case TCPProbe, UDPProbe, ICMPProbe:
		return true
	}
	return false
}

// Outcome classifies the single attempt a prober makes. Every Task resolves to
// exactly one Outcome; probers never let an unclassified fault escape.
type Outcome string

const (
	Success          Outcome = "success"
	Timeout          Outcome = "timeout"
	Refused          Outcome = "refused"
	ResolutionFailed Outcome = "resolution_failed"
	NoPrivilege      Outcome = "no_privilege"
	Cancelled        Outcome = "cancelled"
)

// Task is one unit of work: measure reachability/latency of one address under
// one method. Tasks are created by the target resolver and immutable afterwards.
type Task struct {
	Addr    netip.Addr
	Port    int // meaningful for tcp/udp only
	Method  Method
	Timeout time.Duration
}

// Result is the classified outcome of one Task. Address is kept as a string so
// resolution failures can carry the unresolvable hostname instead of an IP.
type Result struct {
	Address string
	Method  Method
	Outcome Outcome
	Latency time.Duration
	Message string // optional diagnostic, failures only
}

// OK reports whether the probe measured a latency.
func (r Result) OK() bool {
	return r.Outcome == Success
}

// LatencyMS returns the measured latency in milliseconds, rounded to two
// decimals. The rounding here is what exports and filters see, so repeated
// runs over a fixed Result render identically.
func (r Result) LatencyMS() float64 {
	ms := float64(r.Latency.Microseconds()) / 1000
	return math.Round(ms*100) / 100
}

// Do executes a single probe attempt and classifies its outcome. It is the
// dispatch point between methods; callers wanting retries submit a fresh Task.
func Do(ctx context.Context, t Task) Result {
	switch t.Method {
	case TCPProbe:
		return probeTCP(ctx, t)
	case UDPProbe:
		return probeUDP(ctx, t)
	case ICMPProbe:
		return probeICMP(ctx, t)
	}
	return Result{
		Address: t.Addr.String(),
		Method:  t.Method,
		Outcome: Cancelled,
		Message: ErrInvalidMethod.Error(),
	}
}

// cancelledResult converts a task that never ran (deadline elapsed or the run
// was interrupted) into its terminal Result, so no task is silently dropped.
func cancelledResult(t Task) Result {
	return Result{
		Address: t.Addr.String(),
		Method:  t.Method,
		Outcome: Cancelled,
		Message: "run cancelled before probe completed",
	}
}

// readDeadline returns the probe deadline, capped by the run context so a
// blocking read never outlives a global deadline.
func readDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	return deadline
}
