// Package relay implements the interactive loop: it reads one line of
// input at a time, forwards it through the session, and prints the
// server's response, until end-of-input, an interrupt, or a terminal
// session condition stops it.
package relay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"gorelay/config"
	ncerr "gorelay/internal/errors"
	"gorelay/internal/session"
	"gorelay/internal/transport"
	"gorelay/tunnel"
	"gorelay/util"
)

// Relay orchestrates one session end-to-end.
type Relay struct {
	cfg    *config.Config
	tun    tunnel.Tunnel
	logger *util.Logger

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	// Override in tests for deterministic I/O.
	Stdin  io.Reader
	Stdout io.Writer
}

// New returns a ready-to-run Relay.  tun may be nil for a direct
// connection.
func New(cfg *config.Config, tun tunnel.Tunnel, logger *util.Logger) *Relay {
	return &Relay{cfg: cfg, tun: tun, logger: logger}
}

func (r *Relay) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Relay) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

// endpoint builds the transport for the configured mode.  This is the
// only place that looks at the transport kind.
func (r *Relay) endpoint() transport.Endpoint {
	if r.cfg.Mode == config.ModeUDP {
		return transport.NewDatagram(r.cfg.Host, r.cfg.Port, r.cfg.Timeout)
	}
	var d transport.Dialer = &transport.NetDialer{Timeout: config.DefaultConnTimeout}
	if r.tun != nil {
		d = r.tun
	}
	return transport.NewStream(r.cfg.Host, r.cfg.Port, d)
}

// Run connects and drives the request/response loop until it ends.
// A nil return means the session closed cleanly (state DOWN); any
// other terminal condition is returned as an error carrying the
// session's last recorded failure.
func (r *Relay) Run(ctx context.Context) error {
	if r.tun != nil {
		r.logger.Verbose("establishing SSH tunnel to %s@%s:%d",
			r.cfg.TunnelUser, r.cfg.TunnelHost, r.cfg.TunnelPort)
		if err := r.tun.Connect(ctx); err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		defer r.tun.Close()
		r.logger.Verbose("SSH tunnel established")
	}

	ep := r.endpoint()
	defer ep.Close()

	sess := session.New(ep, r.logger)
	if err := sess.Connect(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go readLines(ctx, r.stdin(), lines)

	for sess.State() == session.StateUp {
		var line string
		var open bool
		select {
		case <-ctx.Done():
			return r.shutdown(sess)
		case line, open = <-lines:
			if !open {
				// End of input: the same orderly path as an interrupt.
				return r.shutdown(sess)
			}
		}

		// Cancellation is re-checked after the read and before any
		// network I/O for the iteration, so a line that raced with the
		// interrupt is dropped rather than sent — at most the exchange
		// already in flight completes after cancellation.
		select {
		case <-ctx.Done():
			return r.shutdown(sess)
		default:
		}

		// Empty input is deliberately not forwarded to the server.
		if line == "" {
			continue
		}

		if _, err := sess.Send(line); err != nil {
			break // the session is ERRORED and remembers why
		}

		resp, err := sess.Receive()
		if err != nil {
			break
		}
		if resp == "" {
			// The server ended the dialogue on its own.  The session
			// deliberately stays UP (see session.Receive); the relay
			// reports the condition and exits non-clean.
			return ncerr.Wrap("receive", ep.RemoteAddr(), ncerr.ErrNoResponse)
		}

		fmt.Fprintln(r.stdout(), resp)
	}

	if sess.State() != session.StateDown {
		return ncerr.New(sess.LastError())
	}
	return nil
}

// shutdown is the orderly exit: disconnect, surface the farewell
// status, and report success.
func (r *Relay) shutdown(sess *session.Session) error {
	status, err := sess.Disconnect()
	if err != nil {
		return err
	}
	if status != "" {
		fmt.Fprintln(r.stdout(), status)
	}
	return nil
}

// readLines feeds input lines to out and closes it at end of input.
// The blocking Scan runs here so the loop goroutine can keep observing
// cancellation while the user is (not) typing.
func readLines(ctx context.Context, in io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}
