// Package test holds helpers shared by the package tests.
package test

import (
	"net"
	"strconv"
	"sync"
	"testing"
)

var (
	portsMu sync.Mutex
	ports   = map[int]struct{}{}
)

// ListenAddr returns a localhost address on a free port. A port is never
// handed out twice within a test binary.
func ListenAddr(tb testing.TB) string {
	tb.Helper()

	for {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			tb.Fatalf("find free port: %v", err)
		}
		port := l.Addr().(*net.TCPAddr).Port
		if err := l.Close(); err != nil {
			tb.Fatalf("release port %d: %v", port, err)
		}

		portsMu.Lock()
		_, taken := ports[port]
		ports[port] = struct{}{}
		portsMu.Unlock()
		if !taken {
			return net.JoinHostPort("localhost", strconv.Itoa(port))
		}
	}
}
