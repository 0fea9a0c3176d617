package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultConnTimeout bounds the TCP/SSH connection handshake.
	DefaultConnTimeout = 30 * time.Second

	// DefaultExchangeTimeout is the datagram receive deadline. A
	// datagram session has no peer-close notification, so an unanswered
	// request would otherwise block forever.
	DefaultExchangeTimeout = 30 * time.Second
)
