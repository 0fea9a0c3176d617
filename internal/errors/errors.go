// Package errors provides domain-specific error types for gorelay.
//
// These types carry structured context (operation, address, config field)
// so callers can report failures precisely without string-matching on
// wrapped messages.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrNotConnected is returned when an operation requires an
	// established connection and there is none.
	ErrNotConnected = errors.New("not connected")

	// ErrSessionClosed is returned when a session operation is invoked
	// after the session reached a terminal state.
	ErrSessionClosed = errors.New("session is closed")

	// ErrNoResponse marks the point where the server stopped answering:
	// an orderly close on a stream, or silence past the deadline on a
	// datagram socket.
	ErrNoResponse = errors.New("no response from server")

	// ErrTunnelClosed is returned when dialing through an SSH tunnel
	// that is no longer connected.
	ErrTunnelClosed = errors.New("tunnel is closed")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op   string // operation: "resolve", "dial", "write", "read", "farewell"
	Addr string // network address involved
	Err  error  // underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigError represents a missing or invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := "--" + e.Field
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError binding op and addr to an underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use gorelay/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
