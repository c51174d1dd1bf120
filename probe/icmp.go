package probe

import (
	"context"
	"net"
	"net/netip"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/syndtr/gocapability/capability"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	protocolICMP   = 1  // iana.ProtocolICMP
	protocolICMPv6 = 58 // iana.ProtocolIPv6ICMP
)

var icmpSeq atomic.Uint32

// HasRawSocketPrivilege reports whether the process may open raw ICMP sockets.
// Root always may; otherwise CAP_NET_RAW is consulted on platforms that have
// capabilities. Unprivileged datagram ICMP may still work on linux/darwin, so
// a false return is a hint for the caller's warning, not a hard failure.
func HasRawSocketPrivilege() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	if os.Getuid() == 0 {
		return true
	}
	caps, err := capability.NewPid2(0)
	if err != nil {
		return false
	}
	if err := caps.Load(); err != nil {
		return false
	}
	return caps.Get(capability.EFFECTIVE, capability.CAP_NET_RAW)
}

// listenEcho opens an ICMP socket for the address family of addr. Privileged
// raw sockets are preferred; on linux/darwin a non-root process falls back to
// the unprivileged datagram flavour.
func listenEcho(v6 bool) (net.PacketConn, error) {
	network, fallback := "ip4:icmp", "udp4"
	if v6 {
		network, fallback = "ip6:ipv6-icmp", "udp6"
	}
	if HasRawSocketPrivilege() {
		return icmp.ListenPacket(network, "")
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		return icmp.ListenPacket(fallback, "")
	}
	return nil, os.ErrPermission
}

// probeICMP issues one network-layer echo request and waits for the matching
// reply. A socket the environment refuses to open is NoPrivilege; a reply that
// never arrives is Timeout. The two are never conflated: the former is an
// environment problem, the latter a reachability result.
func probeICMP(ctx context.Context, t Task) Result {
	v6 := t.Addr.Is6() && !t.Addr.Is4In6()

	conn, err := listenEcho(v6)
	if err != nil {
		// classifyNetError maps EPERM/EACCES/ErrPermission to NoPrivilege.
		return classifyNetError(ctx, t, err)
	}
	defer func() { _ = conn.Close() }()

	seq := int(icmpSeq.Add(1) & 0xffff)
	echo := &icmp.Echo{
		ID:   os.Getpid() & 0xffff,
		Seq:  seq,
		Data: []byte("nsweep echo probe"),
	}
	msg := icmp.Message{Type: ipv4.ICMPTypeEcho, Body: echo}
	proto := protocolICMP
	if v6 {
		msg.Type = ipv6.ICMPTypeEchoRequest
		proto = protocolICMPv6
	}

	wire, err := msg.Marshal(nil)
	if err != nil {
		return classifyNetError(ctx, t, err)
	}

	if err := conn.SetDeadline(readDeadline(ctx, t.Timeout)); err != nil {
		return classifyNetError(ctx, t, err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(wire, echoDst(conn, t.Addr)); err != nil {
		return classifyNetError(ctx, t, err)
	}

	buf := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return classifyNetError(ctx, t, err)
		}
		rm, err := icmp.ParseMessage(proto, buf[:n])
		if err != nil {
			continue
		}
		if rm.Type != ipv4.ICMPTypeEchoReply && rm.Type != ipv6.ICMPTypeEchoReply {
			continue
		}
		body, ok := rm.Body.(*icmp.Echo)
		if !ok || body.Seq != seq {
			// Reply to some other probe sharing the socket family; keep
			// reading until our sequence number or the deadline.
			continue
		}
		return Result{
			Address: t.Addr.String(),
			Method:  t.Method,
			Outcome: Success,
			Latency: time.Since(start),
		}
	}
}

// echoDst picks the destination address type matching the socket flavour:
// datagram ICMP sockets want *net.UDPAddr, raw sockets want *net.IPAddr.
func echoDst(conn net.PacketConn, addr netip.Addr) net.Addr {
	ip := net.IP(addr.AsSlice())
	if _, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return &net.UDPAddr{IP: ip}
	}
	return &net.IPAddr{IP: ip}
}
