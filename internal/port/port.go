// Package port selects a usable loopback TCP port for the HTTP listener.
package port

import (
	"fmt"
	"net"
	"strconv"
)

// Pick returns the first of {preferred, lo, lo+1, ..., hi} on which a loopback
// listener can be opened. Each probe releases the port immediately; the caller
// binds it for real afterwards. An error means the sidecar cannot start.
func Pick(preferred, lo, hi int) (int, error) {
	if available(preferred) {
		return preferred, nil
	}
	for p := lo; p <= hi; p++ {
		if available(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("no available port: tried %d and %d-%d", preferred, lo, hi)
}

func available(p int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
