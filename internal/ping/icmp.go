package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"network-quality-logger/internal/models"
)

const protocolICMP = 1

var echoPayload = []byte("network-quality-logger")

// ICMPPinger sends ICMP echo requests directly instead of running a binary.
// Unprivileged mode uses datagram sockets (Linux needs net.ipv4.ping_group_range
// to include the process group); privileged mode uses raw sockets.
type ICMPPinger struct {
	privileged bool
	seq        atomic.Uint32
}

// NewICMP creates an ICMPPinger
func NewICMP(privileged bool) *ICMPPinger {
	return &ICMPPinger{privileged: privileged}
}

// Ping sends one echo request and waits up to timeout for the matching reply.
func (p *ICMPPinger) Ping(ctx context.Context, target string, timeout time.Duration) (models.PingResponse, error) {
	result := models.PingResponse{Host: target}

	ip, err := resolveIPv4(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("resolve %s: %w", target, ctx.Err())
		}
		// unknown host behaves like the ping binary: unreachable, not an error
		result.Output = err.Error()
		result.PacketLoss = 100
		return result, nil
	}
	result.NumericHost = ip.String()

	network := "udp4"
	var dst net.Addr = &net.UDPAddr{IP: ip}
	if p.privileged {
		network = "ip4:icmp"
		dst = &net.IPAddr{IP: ip}
	}

	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		return result, fmt.Errorf("listen %s: %w", network, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	id := os.Getpid() & 0xffff
	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: echoPayload},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return result, fmt.Errorf("marshal echo: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return result, fmt.Errorf("set deadline: %w", err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(wb, dst); err != nil {
		return result, fmt.Errorf("send echo to %s: %w", target, err)
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return result, fmt.Errorf("ping %s: %w", target, ctx.Err())
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				result.Output = fmt.Sprintf("no echo reply from %s (%s) within %s", target, ip, timeout)
				result.PacketLoss = 100
				return result, nil
			}
			return result, fmt.Errorf("read echo reply: %w", err)
		}
		rtt := time.Since(start)

		// datagram sockets get their echo id rewritten by the kernel
		if !isEchoReply(buf[:n], peer, ip, id, seq, p.privileged) {
			continue
		}

		result.Alive = true
		result.Time = float64(rtt.Microseconds()) / 1000
		result.Output = fmt.Sprintf("%d bytes from %s: icmp_seq=%d time=%.3f ms", n, ip, seq, result.Time)
		return result, nil
	}
}

func isEchoReply(b []byte, peer net.Addr, ip net.IP, id, seq int, checkID bool) bool {
	rm, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil || rm.Type != ipv4.ICMPTypeEchoReply {
		return false
	}
	echo, ok := rm.Body.(*icmp.Echo)
	if !ok || echo.Seq != seq {
		return false
	}
	if checkID && echo.ID != id {
		return false
	}
	return peerIP(peer).Equal(ip)
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}

func resolveIPv4(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("%s is not an IPv4 address", host)
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address for %s", host)
}
