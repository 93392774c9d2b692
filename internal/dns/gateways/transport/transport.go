// Package transport sends DNS queries to upstream servers over UDP and
// returns their raw replies, with no retry and no decoding of its own.
package transport

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when a query exceeds its deadline without a reply.
var ErrTimeout = errors.New("transport: timeout")

// ErrTransport is returned for any non-timeout transport failure: socket
// creation, dial, write, or read errors.
var ErrTransport = errors.New("transport: failed")

// Transport sends one query packet to a server and returns its raw reply.
// Implementations open a fresh socket per call and close it on every exit
// path; callers are responsible for retrying against a different server.
type Transport interface {
	SendAndRecv(ctx context.Context, packet []byte, serverIP string, port int, timeout time.Duration) ([]byte, error)
}
