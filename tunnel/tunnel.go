// Package tunnel routes a stream session through an SSH gateway.  A
// Tunnel satisfies the transport Dialer contract, so the stream
// endpoint uses it in place of the local network stack without
// noticing the difference.
package tunnel

import (
	"context"
	"net"
)

// Tunnel is an encrypted path to the destination network.
type Tunnel interface {
	// Connect establishes the tunnel (SSH handshake + auth).
	Connect(ctx context.Context) error

	// Dial opens a forwarded connection through the tunnel.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close tears the tunnel down.
	Close() error
}
