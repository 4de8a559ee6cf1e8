package port

import (
	"net"
	"testing"
)

// occupy binds a loopback listener on an ephemeral port and returns the port
// number. The listener is closed via t.Cleanup, keeping the port busy for the
// duration of the test.
func occupy(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l.Addr().(*net.TCPAddr).Port
}

// freePort finds a port that was just free. Inherently racy against other
// processes, but fine for a local test run.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	p := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return p
}

func TestPick_PreferredFree(t *testing.T) {
	p := freePort(t)

	got, err := Pick(p, p+1, p+1)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != p {
		t.Fatalf("expected preferred port %d, got %d", p, got)
	}
}

func TestPick_FallsBackWhenPreferredBusy(t *testing.T) {
	busy := occupy(t)
	fallback := freePort(t)

	got, err := Pick(busy, fallback, fallback)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != fallback {
		t.Fatalf("expected fallback port %d, got %d", fallback, got)
	}
}

func TestPick_AllBusy(t *testing.T) {
	busy := occupy(t)

	if _, err := Pick(busy, busy, busy); err == nil {
		t.Fatal("expected error when no port is available")
	}
}
