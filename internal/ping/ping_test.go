package ping

import (
	"context"
	"errors"
	"net"
	"os/exec"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"network-quality-logger/internal/models"
)

func TestParsePingOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected float64
	}{
		{
			name:     "macOS individual response",
			output:   "64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms",
			expected: 44.347,
		},
		{
			name:     "macOS summary line",
			output:   "round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms",
			expected: 44.347,
		},
		{
			name:     "Linux individual response",
			output:   "64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=12.3 ms",
			expected: 12.3,
		},
		{
			name:     "Linux summary line",
			output:   "rtt min/avg/max/mdev = 12.300/12.300/12.300/0.000 ms",
			expected: 12.3,
		},
		{
			name:     "BusyBox summary line",
			output:   "round-trip min/avg/max = 12.3/12.3/12.3 ms",
			expected: 12.3,
		},
		{
			name:     "Windows response",
			output:   "Reply from 8.8.8.8: bytes=32 time=15ms TTL=118",
			expected: 15,
		},
		{
			name:     "Windows sub-millisecond",
			output:   "Reply from 8.8.8.8: bytes=32 time<1ms TTL=118",
			expected: 1,
		},
		{
			name:     "No match",
			output:   "ping: unknown host example.invalid",
			expected: 0,
		},
		{
			name:     "Empty output",
			output:   "",
			expected: 0,
		},
		{
			name: "Multiple lines with macOS output",
			output: `PING 8.8.8.8 (8.8.8.8): 56 data bytes
64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms

--- 8.8.8.8 ping statistics ---
1 packets transmitted, 1 packets received, 0.0% packet loss
round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms`,
			expected: 44.347,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parsePingOutput(tt.output)
			if result != tt.expected {
				t.Errorf("parsePingOutput(%q) = %v, want %v", tt.output, result, tt.expected)
			}
		})
	}
}

func TestParseNumericHostAndLoss(t *testing.T) {
	linux := `PING one.one.one.one (1.1.1.1) 56(84) bytes of data.
64 bytes from 1.1.1.1: icmp_seq=1 ttl=57 time=9.81 ms

--- one.one.one.one ping statistics ---
1 packets transmitted, 1 received, 0% packet loss, time 0ms`
	windows := `Pinging dns.google [8.8.8.8] with 32 bytes of data:
Request timed out.

Ping statistics for 8.8.8.8:
    Packets: Sent = 1, Received = 0, Lost = 1 (100% loss),`

	if got := parseNumericHost(linux); got != "1.1.1.1" {
		t.Errorf("linux numeric host = %q", got)
	}
	if got := parseNumericHost(windows); got != "8.8.8.8" {
		t.Errorf("windows numeric host = %q", got)
	}
	if got := parseNumericHost("garbage"); got != "" {
		t.Errorf("unexpected numeric host %q", got)
	}

	if loss, ok := parsePacketLoss(linux); !ok || loss != 0 {
		t.Errorf("linux loss = %v, %v", loss, ok)
	}
	if loss, ok := parsePacketLoss(windows); !ok || loss != 100 {
		t.Errorf("windows loss = %v, %v", loss, ok)
	}
}

func TestPingArgs(t *testing.T) {
	tests := []struct {
		goos     string
		timeout  time.Duration
		expected []string
	}{
		{goos: "linux", timeout: 60 * time.Second, expected: []string{"-c", "1", "-W", "60", "host"}},
		{goos: "linux", timeout: 200 * time.Millisecond, expected: []string{"-c", "1", "-W", "1", "host"}},
		{goos: "darwin", timeout: 2 * time.Second, expected: []string{"-c", "1", "-W", "2000", "host"}},
		{goos: "windows", timeout: 60 * time.Second, expected: []string{"-n", "1", "-w", "60000", "host"}},
	}

	for _, tt := range tests {
		got := pingArgs(tt.goos, "host", tt.timeout)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("pingArgs(%s, %v) = %v, want %v", tt.goos, tt.timeout, got, tt.expected)
		}
	}
}

func TestPingMissingBinaryIsTransportError(t *testing.T) {
	p := &Pinger{binary: "definitely-not-a-ping-binary"}
	_, err := p.Ping(context.Background(), "127.0.0.1", time.Second)
	if err == nil {
		t.Fatal("expected error when the ping binary is missing")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected exec.ErrNotFound, got %v", err)
	}
}

func TestPingerPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ping integration test in short mode")
	}

	if _, err := exec.LookPath("ping"); err != nil {
		t.Skip("ping binary not available on PATH")
	}

	pinger := New()

	result, err := pinger.Ping(context.Background(), "127.0.0.1", 5*time.Second)
	if err != nil {
		t.Skipf("skipping due to unexpected ping failure: %v", err)
	}

	t.Logf("Ping result: Alive=%v, Time=%v, Output=%s", result.Alive, result.Time, result.Output)

	if !result.Alive {
		t.Skip("loopback ping not permitted in this environment")
	}

	if result.Host != "127.0.0.1" {
		t.Errorf("Expected host to be '127.0.0.1', got %v", result.Host)
	}

	// An unknown host is a per-target failure, not an error
	result, err = pinger.Ping(context.Background(), "invalid.host.that.does.not.exist", 2*time.Second)
	if err != nil {
		t.Fatalf("Expected unknown host to be reported as not alive, got error: %v", err)
	}
	if result.Alive {
		t.Errorf("Expected ping to invalid host to fail, but it succeeded")
	}
}

type fakePinger struct {
	delay   time.Duration
	dead    map[string]bool
	errs    map[string]error
	started atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context, target string, timeout time.Duration) (models.PingResponse, error) {
	f.started.Add(1)
	time.Sleep(f.delay)
	if err := f.errs[target]; err != nil {
		return models.PingResponse{Host: target}, err
	}
	if f.dead[target] {
		return models.PingResponse{Host: target, PacketLoss: 100}, nil
	}
	return models.PingResponse{Host: target, Alive: true, Time: 10}, nil
}

func TestProbeAllRunsTargetsConcurrently(t *testing.T) {
	f := &fakePinger{delay: 100 * time.Millisecond}
	targets := []string{"a", "b", "c"}

	start := time.Now()
	results, err := ProbeAll(context.Background(), f, targets, time.Second)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("ProbeAll: %v", err)
	}
	if elapsed > 250*time.Millisecond {
		t.Errorf("probes appear sequential: took %v", elapsed)
	}
	for i, r := range results {
		if r.Host != targets[i] {
			t.Errorf("result %d host = %q, want %q", i, r.Host, targets[i])
		}
	}
}

func TestProbeAllKeepsOtherTargetsOnFailure(t *testing.T) {
	boom := errors.New("network is unreachable")
	f := &fakePinger{
		dead: map[string]bool{"b": true},
		errs: map[string]error{"c": boom},
	}

	results, err := ProbeAll(context.Background(), f, []string{"a", "b", "c"}, time.Second)
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if got := f.started.Load(); got != 3 {
		t.Errorf("expected all 3 probes to run, got %d", got)
	}
	if !results[0].Alive || results[1].Alive {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestProbeAllReturnsFirstErrorInTargetOrder(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	f := &fakePinger{errs: map[string]error{"a": first, "c": second}}

	_, err := ProbeAll(context.Background(), f, []string{"a", "b", "c"}, time.Second)
	if !errors.Is(err, first) {
		t.Fatalf("expected first error, got %v", err)
	}
}

func TestIsEchoReply(t *testing.T) {
	ip := net.IPv4(1, 1, 1, 1).To4()
	reply := func(typ icmp.Type, id, seq int) []byte {
		b, err := (&icmp.Message{Type: typ, Body: &icmp.Echo{ID: id, Seq: seq, Data: echoPayload}}).Marshal(nil)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return b
	}

	tests := []struct {
		name     string
		msg      []byte
		peer     net.Addr
		checkID  bool
		expected bool
	}{
		{name: "match", msg: reply(ipv4.ICMPTypeEchoReply, 7, 3), peer: &net.UDPAddr{IP: ip}, expected: true},
		{name: "raw match", msg: reply(ipv4.ICMPTypeEchoReply, 7, 3), peer: &net.IPAddr{IP: ip}, checkID: true, expected: true},
		{name: "rewritten id on datagram socket", msg: reply(ipv4.ICMPTypeEchoReply, 99, 3), peer: &net.UDPAddr{IP: ip}, expected: true},
		{name: "foreign id on raw socket", msg: reply(ipv4.ICMPTypeEchoReply, 99, 3), peer: &net.IPAddr{IP: ip}, checkID: true, expected: false},
		{name: "wrong seq", msg: reply(ipv4.ICMPTypeEchoReply, 7, 4), peer: &net.UDPAddr{IP: ip}, expected: false},
		{name: "echo request", msg: reply(ipv4.ICMPTypeEcho, 7, 3), peer: &net.UDPAddr{IP: ip}, expected: false},
		{name: "other peer", msg: reply(ipv4.ICMPTypeEchoReply, 7, 3), peer: &net.UDPAddr{IP: net.IPv4(8, 8, 8, 8)}, expected: false},
		{name: "garbage", msg: []byte{1}, peer: &net.UDPAddr{IP: ip}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEchoReply(tt.msg, tt.peer, ip, 7, 3, tt.checkID); got != tt.expected {
				t.Errorf("isEchoReply() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResolveIPv4Literal(t *testing.T) {
	ip, err := resolveIPv4(context.Background(), "95.216.19.251")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ip.String() != "95.216.19.251" {
		t.Errorf("got %v", ip)
	}
	if _, err := resolveIPv4(context.Background(), "::1"); err == nil {
		t.Error("expected error for IPv6 literal")
	}
}
