package probe

import (
	"context"
	"net"
	"time"
)

// probeUDP sends one empty datagram to addr:port and waits for any reply.
// The transport gives no delivery guarantee, so a silent peer is reported as
// Timeout: a heuristic reachability signal, not a definitive determination.
// A connected UDP socket does surface ICMP port-unreachable as ECONNREFUSED,
// which maps to Refused.
func probeUDP(ctx context.Context, t Task) Result {
	d := net.Dialer{Timeout: t.Timeout}

	conn, err := d.DialContext(ctx, "udp", hostPort(t.Addr, t.Port))
	if err != nil {
		return classifyNetError(ctx, t, err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(readDeadline(ctx, t.Timeout)); err != nil {
		return classifyNetError(ctx, t, err)
	}

	start := time.Now()
	if _, err := conn.Write([]byte{}); err != nil {
		return classifyNetError(ctx, t, err)
	}

	buf := make([]byte, 1024)
	if _, err := conn.Read(buf); err != nil {
		return classifyNetError(ctx, t, err)
	}
	latency := time.Since(start)

	return Result{
		Address: t.Addr.String(),
		Method:  t.Method,
		Outcome: Success,
		Latency: latency,
	}
}
