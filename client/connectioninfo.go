package client

import (
	"crypto/x509"
	"net"
	"strconv"
)

// ConnectionInfo is captured once, at bind time, and never mutated
// afterwards (spec.md §3).
type ConnectionInfo struct {
	LocalAddress          string
	LocalPort             int
	RemoteAddress         string
	RemotePort            int
	RemotePeerCertificate *x509.Certificate
}

func splitHostPort(addr net.Addr) (string, int) {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}
