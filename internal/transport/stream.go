package transport

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	ncerr "gorelay/internal/errors"
	"gorelay/util"
)

// Wire format, stream variant: newline-delimited UTF-8 text in both
// directions.  The dialogue ends with a farewell exchange — the client
// writes "BYE", the server echoes it back and closes.
const (
	streamFarewell = "BYE"

	// farewellTimeout bounds the wait for the farewell echo so that a
	// mute server cannot hang an orderly shutdown.
	farewellTimeout = 5 * time.Second
)

// Stream is the connection-oriented Endpoint.  Connect performs a full
// TCP handshake (optionally through an SSH tunnel via the Dialer), and
// Receive reports the empty result when the peer closes.
type Stream struct {
	addr   string
	dialer Dialer
	conn   io.ReadWriteCloser
	rd     *bufio.Reader

	// setDeadline is non-nil when conn supports read deadlines.
	setDeadline func(time.Time) error
}

// NewStream returns a stream endpoint for host:port using dialer.
func NewStream(host string, port int, dialer Dialer) *Stream {
	return &Stream{addr: util.FormatAddr(host, port), dialer: dialer}
}

// RemoteAddr returns the destination address.
func (s *Stream) RemoteAddr() string { return s.addr }

// Connect dials the peer.  Refused, unreachable, and resolution
// failures are reported as errors and never retried.
func (s *Stream) Connect(ctx context.Context) error {
	conn, err := s.dialer.Dial(ctx, "tcp", s.addr)
	if err != nil {
		return ncerr.Wrap("dial", s.addr, err)
	}
	s.conn = conn
	s.rd = bufio.NewReader(conn)
	if dc, ok := conn.(interface{ SetReadDeadline(time.Time) error }); ok {
		s.setDeadline = dc.SetReadDeadline
	}
	return nil
}

// Send writes one request line.
func (s *Stream) Send(line string) (int, error) {
	if s.conn == nil {
		return 0, ncerr.ErrNotConnected
	}
	n, err := io.WriteString(s.conn, line+"\n")
	if err != nil {
		return n, ncerr.Wrap("write", s.addr, err)
	}
	return n, nil
}

// Receive blocks for one newline-terminated response.  An orderly close
// by the peer yields the empty result, not an error.
func (s *Stream) Receive() (string, error) {
	if s.conn == nil {
		return "", ncerr.ErrNotConnected
	}
	line, err := s.rd.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			// A partial line before EOF is still a response.
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", ncerr.Wrap("read", s.addr, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Disconnect runs the farewell exchange and closes the handle.  The
// farewell is best-effort: if the peer is already gone the endpoint
// still closes cleanly and reports a local status.
func (s *Stream) Disconnect() (string, error) {
	if s.conn == nil {
		return "", ncerr.ErrNotConnected
	}

	status := "connection closed"
	if _, err := io.WriteString(s.conn, streamFarewell+"\n"); err == nil {
		if s.setDeadline != nil {
			s.setDeadline(time.Now().Add(farewellTimeout)) //nolint:errcheck
		}
		// If the echo never arrives (timeout, peer already gone) the
		// local status string stands.
		reply, _ := s.rd.ReadString('\n')
		if trimmed := strings.TrimRight(reply, "\r\n"); trimmed != "" {
			status = trimmed
		}
	}

	if err := s.Close(); err != nil {
		return status, ncerr.Wrap("close", s.addr, err)
	}
	return status, nil
}

// Close releases the handle.  Safe to call more than once.
func (s *Stream) Close() error {
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	s.setDeadline = nil
	return conn.Close()
}
