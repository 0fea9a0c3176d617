// Package session sequences one client-to-server dialogue over a
// transport endpoint.
//
// A session moves through a one-way state machine:
//
//	INIT ──connect ok──▶ UP ──disconnect──▶ DOWN
//	  │                   │
//	  └──connect fail──▶ ERRORED ◀──send/receive fail──┘
//
// No state is re-entered once left.  DOWN is reached only through
// Disconnect; every failure path ends in ERRORED with the failure
// recorded as the session's last error.  Calling an operation from the
// wrong state is reported as an error without being performed and
// without a transition, so a terminal state stays what it was.
package session

import (
	"context"
	"fmt"

	ncerr "gorelay/internal/errors"
	"gorelay/internal/transport"
	"gorelay/util"
)

// State is the session lifecycle position.
type State int

const (
	StateInit State = iota // constructed, not yet connected
	StateUp                // connected, able to exchange requests
	StateDown              // cleanly disconnected (terminal, non-error)
	StateErrored           // a failure occurred (terminal)
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateUp:
		return "UP"
	case StateDown:
		return "DOWN"
	case StateErrored:
		return "ERRORED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session drives a transport.Endpoint according to the state machine
// and translates endpoint failures into state plus a last-error
// message.  A session is used by one goroutine.
type Session struct {
	ep      transport.Endpoint
	state   State
	lastErr string
	logger  *util.Logger
}

// New returns a session in INIT wrapping ep.
func New(ep transport.Endpoint, logger *util.Logger) *Session {
	return &Session{ep: ep, logger: logger}
}

// State returns the current lifecycle position.
func (s *Session) State() State { return s.state }

// LastError returns the message recorded by the most recent failing
// call, or "" if no failure occurred.
func (s *Session) LastError() string { return s.lastErr }

// fail transitions to ERRORED, records err, and returns it.
func (s *Session) fail(err error) error {
	s.state = StateErrored
	s.lastErr = err.Error()
	return err
}

// Connect establishes the transport.  Valid only from INIT; it must
// not be called twice.
func (s *Session) Connect(ctx context.Context) error {
	if s.state != StateInit {
		return fmt.Errorf("connect in state %s: %w", s.state, ncerr.ErrSessionClosed)
	}
	if err := s.ep.Connect(ctx); err != nil {
		return s.fail(err)
	}
	s.state = StateUp
	s.logger.Verbose("connected to %s", s.ep.RemoteAddr())
	return nil
}

// Send forwards one request line.  Valid only while UP; a transport
// failure moves the session to ERRORED so the caller can stop without
// inspecting state separately.
func (s *Session) Send(line string) (int, error) {
	if s.state != StateUp {
		return 0, fmt.Errorf("send in state %s: %w", s.state, ncerr.ErrNotConnected)
	}
	n, err := s.ep.Send(line)
	if err != nil {
		return n, s.fail(err)
	}
	s.logger.Debug("sent %d bytes", n)
	return n, nil
}

// Receive blocks for one response.  Valid only while UP.  The empty
// result is the "no more communication possible" cue and deliberately
// leaves the state at UP — orderly shutdown is the caller's move, via
// Disconnect.
func (s *Session) Receive() (string, error) {
	if s.state != StateUp {
		return "", fmt.Errorf("receive in state %s: %w", s.state, ncerr.ErrNotConnected)
	}
	resp, err := s.ep.Receive()
	if err != nil {
		return "", s.fail(err)
	}
	return resp, nil
}

// Disconnect performs the transport's farewell, closes the endpoint,
// and moves the session to DOWN — the only path that reaches DOWN.
// From DOWN a second call is a silent no-op; from INIT or ERRORED it
// is an error and the state stays terminal.
func (s *Session) Disconnect() (string, error) {
	switch s.state {
	case StateUp:
		status, err := s.ep.Disconnect()
		if err != nil {
			return "", s.fail(err)
		}
		s.state = StateDown
		s.logger.Verbose("disconnected from %s", s.ep.RemoteAddr())
		return status, nil
	case StateDown:
		return "", nil
	default:
		return "", fmt.Errorf("disconnect in state %s: %w", s.state, ncerr.ErrSessionClosed)
	}
}

// Close releases the endpoint without a farewell.  It exists for
// cleanup on failure paths and never changes the session state.
func (s *Session) Close() error { return s.ep.Close() }
