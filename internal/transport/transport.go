// Package transport owns the raw network handle for one session and
// performs transport-correct connect/send/receive/close.  The two
// variants — Stream (tcp) and Datagram (udp) — expose the same
// contract; all framing and farewell knowledge lives here so that
// nothing above this package ever branches on the transport kind.
package transport

import (
	"context"
	"net"
	"time"
)

// Endpoint is the session's view of one network handle.  An Endpoint
// is used for exactly one dialogue: Connect once, any number of
// Send/Receive pairs, then Disconnect (or Close) once.
type Endpoint interface {
	// Connect resolves the destination and establishes the handle.
	// For a stream this is a full handshake; for a datagram it only
	// fixes the peer address, so success does not imply reachability.
	Connect(ctx context.Context) error

	// Send writes one request line and returns the number of payload
	// bytes accepted.
	Send(line string) (int, error)

	// Receive blocks for one response.  The empty string with a nil
	// error means "no more data": the peer closed (stream) or no
	// datagram arrived within the deadline (datagram).
	Receive() (string, error)

	// Disconnect performs the transport's farewell exchange, if the
	// protocol defines one, closes the handle, and returns a short
	// status string for the user.
	Disconnect() (string, error)

	// Close releases the handle without a farewell.  Idempotent.
	Close() error

	// RemoteAddr returns the destination as "host:port".
	RemoteAddr() string
}

// Dialer opens outbound stream connections.  The plain case is
// NetDialer; an SSH tunnel satisfies the same interface so a stream
// endpoint can be routed through an encrypted gateway unchanged.
type Dialer interface {
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer.
	// Stateless dialers return nil.
	Close() error
}

// NetDialer dials directly over the local network stack.
type NetDialer struct {
	Timeout time.Duration
}

// Dial connects to address over the given network.
func (d *NetDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	return nd.DialContext(ctx, network, address)
}

// Close is a no-op for stateless dialers.
func (d *NetDialer) Close() error { return nil }
