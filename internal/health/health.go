// Package health implements readiness polling for the managed services.
// WaitFor is the single bounded-retry primitive in axonctl; the health
// verifier and the shutdown escalation both build on it.
package health

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/proc"
)

const (
	// DefaultBackendTimeout bounds how long the backend may take to start
	// accepting connections. Model loading makes the engine slow to boot.
	DefaultBackendTimeout = 30 * time.Second

	// DefaultFrontendTimeout bounds frontend startup.
	DefaultFrontendTimeout = 15 * time.Second

	// PollInterval is how often a readiness predicate is retried.
	PollInterval = 500 * time.Millisecond

	dialTimeout = 2 * time.Second
)

// WaitFor polls predicate every interval until it returns true, the timeout
// elapses, or the context is cancelled. It returns true only on predicate
// success. The predicate is always tried at least once, immediately.
func WaitFor(ctx context.Context, predicate func() bool, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if predicate() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
}

// PortReachable reports whether host:port currently accepts TCP connections.
func PortReachable(host string, port int) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// LivenessOK probes an HTTP liveness path. Readiness stays binary: any
// response at all counts, the body is never parsed.
func LivenessOK(host string, port int, path string) bool {
	client := http.Client{Timeout: dialTimeout}
	url := fmt.Sprintf("http://%s%s", net.JoinHostPort(host, strconv.Itoa(port)), path)
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// WaitUntilReady blocks until the descriptor's port accepts connections or
// the timeout elapses. On failure it returns ErrStartupTimeout carrying the
// service's log file path so the operator can diagnose without digging.
//
// This is the only intentionally blocking, bounded wait in the system.
func WaitUntilReady(ctx context.Context, desc proc.ServiceDescriptor, timeout time.Duration) error {
	ready := WaitFor(ctx, func() bool {
		return PortReachable(desc.Host, desc.Port)
	}, timeout, PollInterval)

	if !ready {
		// A cancelled wait is the operator's interrupt, not a timeout.
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s did not become ready on %s:%d within %s (see %s)",
			config.ErrStartupTimeout, desc.Name, desc.Host, desc.Port, timeout, desc.LogFile)
	}
	return nil
}
