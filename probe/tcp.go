package probe

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"strconv"
	"syscall"
	"time"
)

// probeTCP measures the time to complete a transport handshake against
// addr:port. An explicit rejection is Refused, an elapsed timeout is Timeout.
func probeTCP(ctx context.Context, t Task) Result {
	d := net.Dialer{Timeout: t.Timeout}

	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", hostPort(t.Addr, t.Port))
	if err != nil {
		return classifyNetError(ctx, t, err)
	}
	latency := time.Since(start)
	_ = conn.Close()

	return Result{
		Address: t.Addr.String(),
		Method:  t.Method,
		Outcome: Success,
		Latency: latency,
	}
}

func hostPort(addr netip.Addr, port int) string {
	return net.JoinHostPort(addr.String(), strconv.Itoa(port))
}

// classifyNetError folds a dial/read error into the closed outcome set.
// Cancellation wins over everything else: a timeout observed after the run
// context died is reported as Cancelled, not Timeout.
func classifyNetError(ctx context.Context, t Task, err error) Result {
	res := Result{
		Address: t.Addr.String(),
		Method:  t.Method,
		Message: err.Error(),
	}

	switch {
	case ctx.Err() != nil:
		res.Outcome = Cancelled
	case errors.Is(err, syscall.ECONNREFUSED):
		res.Outcome = Refused
	case errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) || errors.Is(err, os.ErrPermission):
		res.Outcome = NoPrivilege
	case isTimeout(err):
		res.Outcome = Timeout
	default:
		// Unroutable / administratively rejected targets behave like a
		// rejection from the caller's point of view; the message keeps the
		// exact errno for diagnostics.
		res.Outcome = Refused
	}
	return res
}

func isTimeout(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
