package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	ncerr "gorelay/internal/errors"
	"gorelay/util"
)

// Wire format, datagram variant: each request is a single datagram
//
//	+--------+--------+----------------+
//	| opcode | length |    payload     |
//	|  0x00  | 1 byte | length bytes   |
//	+--------+--------+----------------+
//
// and each response is
//
//	+--------+--------+--------+----------------+
//	| opcode | status | length |    payload     |
//	|  0x01  | 1 byte | 1 byte | length bytes   |
//	+--------+--------+--------+----------------+
//
// with status 0x00 for success.  There is no farewell exchange.
const (
	opRequest  = 0x00
	opResponse = 0x01
	statusOK   = 0x00

	// maxPayload is the largest request the one-byte length field can
	// describe.
	maxPayload = 255
)

// Datagram is the connectionless Endpoint.  Connect only fixes the
// peer address locally — no handshake occurs, so a successful Connect
// does not guarantee the server is reachable.  The first exchange is
// where an absent peer shows up, as a send/receive failure or an empty
// result after the receive deadline.
type Datagram struct {
	addr    string
	timeout time.Duration
	conn    *net.UDPConn
}

// NewDatagram returns a datagram endpoint for host:port.  timeout
// bounds each Receive; zero means block indefinitely.
func NewDatagram(host string, port int, timeout time.Duration) *Datagram {
	return &Datagram{addr: util.FormatAddr(host, port), timeout: timeout}
}

// RemoteAddr returns the destination address.
func (d *Datagram) RemoteAddr() string { return d.addr }

// Connect resolves the destination and binds it as the socket's peer.
func (d *Datagram) Connect(_ context.Context) error {
	raddr, err := net.ResolveUDPAddr("udp", d.addr)
	if err != nil {
		return ncerr.Wrap("resolve", d.addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return ncerr.Wrap("dial", d.addr, err)
	}
	d.conn = conn
	return nil
}

// Send frames line as one request datagram and writes it.
func (d *Datagram) Send(line string) (int, error) {
	if d.conn == nil {
		return 0, ncerr.ErrNotConnected
	}
	if len(line) > maxPayload {
		return 0, ncerr.Wrap("write", d.addr,
			fmt.Errorf("request is %d bytes, limit is %d", len(line), maxPayload))
	}

	buf := make([]byte, 0, 2+len(line))
	buf = append(buf, opRequest, byte(len(line)))
	buf = append(buf, line...)

	if _, err := d.conn.Write(buf); err != nil {
		return 0, ncerr.Wrap("write", d.addr, err)
	}
	return len(line), nil
}

// Receive blocks for one response datagram, up to the configured
// deadline.  Both a deadline expiry and a zero-length payload map to
// the empty result — a datagram socket cannot distinguish a lost reply
// from an orderly goodbye, so the caller treats them alike.
func (d *Datagram) Receive() (string, error) {
	if d.conn == nil {
		return "", ncerr.ErrNotConnected
	}
	if d.timeout > 0 {
		d.conn.SetReadDeadline(time.Now().Add(d.timeout)) //nolint:errcheck
	}

	buf := make([]byte, 3+maxPayload)
	n, err := d.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return "", nil
		}
		return "", ncerr.Wrap("read", d.addr, err)
	}

	if n < 3 || buf[0] != opResponse {
		return "", ncerr.Wrap("read", d.addr, fmt.Errorf("malformed response (%d bytes)", n))
	}
	plen := int(buf[2])
	if plen > n-3 {
		plen = n - 3
	}
	if plen == 0 {
		return "", nil
	}

	payload := string(buf[3 : 3+plen])
	if buf[1] != statusOK {
		return "ERR:" + payload, nil
	}
	return payload, nil
}

// Disconnect closes the handle.  The datagram variant has no farewell
// message, so the status is purely local.
func (d *Datagram) Disconnect() (string, error) {
	if d.conn == nil {
		return "", ncerr.ErrNotConnected
	}
	if err := d.Close(); err != nil {
		return "", ncerr.Wrap("close", d.addr, err)
	}
	return "connection closed", nil
}

// Close releases the handle.  Safe to call more than once.
func (d *Datagram) Close() error {
	if d.conn == nil {
		return nil
	}
	conn := d.conn
	d.conn = nil
	return conn.Close()
}
