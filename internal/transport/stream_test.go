package transport

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"
)

// echoServer accepts one connection and answers every line with its
// upper-case form until the farewell, which it echoes back before
// closing.  Received lines are reported on the returned channel.
func echoServer(t *testing.T) (addr *net.TCPAddr, got <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			line := sc.Text()
			lines <- line
			if line == streamFarewell {
				conn.Write([]byte(streamFarewell + "\n"))
				return
			}
			conn.Write([]byte(strings.ToUpper(line) + "\n"))
		}
	}()

	return ln.Addr().(*net.TCPAddr), lines
}

func TestStreamExchange(t *testing.T) {
	addr, got := echoServer(t)

	ep := NewStream("127.0.0.1", addr.Port, &NetDialer{Timeout: 2 * time.Second})
	if err := ep.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ep.Close()

	n, err := ep.Send("hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n != len("hello\n") {
		t.Errorf("send reported %d bytes", n)
	}

	resp, err := ep.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if resp != "HELLO" {
		t.Errorf("response = %q, want %q", resp, "HELLO")
	}

	status, err := ep.Disconnect()
	if err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if status != streamFarewell {
		t.Errorf("status = %q, want the farewell echo", status)
	}

	var sent []string
	for line := range got {
		sent = append(sent, line)
	}
	want := []string{"hello", streamFarewell}
	if len(sent) != len(want) || sent[0] != want[0] || sent[1] != want[1] {
		t.Errorf("server saw %v, want %v", sent, want)
	}
}

func TestStreamPeerClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	// Server closes immediately after accepting.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	ep := NewStream("127.0.0.1", ln.Addr().(*net.TCPAddr).Port, &NetDialer{Timeout: 2 * time.Second})
	if err := ep.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ep.Close()

	resp, err := ep.Receive()
	if err != nil {
		t.Fatalf("receive after close: %v", err)
	}
	if resp != "" {
		t.Errorf("response = %q, want the empty no-more-data result", resp)
	}
}

func TestStreamConnectRefused(t *testing.T) {
	// Grab a port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	ep := NewStream("127.0.0.1", port, &NetDialer{Timeout: time.Second})
	if err := ep.Connect(context.Background()); err == nil {
		ep.Close()
		t.Fatal("expected a connect error")
	}
}

func TestStreamDisconnectWhenPeerGone(t *testing.T) {
	addr, got := echoServer(t)

	ep := NewStream("127.0.0.1", addr.Port, &NetDialer{Timeout: 2 * time.Second})
	if err := ep.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	// Drive the server through its farewell so it closes first.
	ep.Send(streamFarewell)
	ep.Receive()
	for range got {
	}

	status, err := ep.Disconnect()
	if err != nil {
		t.Fatalf("disconnect with peer gone: %v", err)
	}
	if status == "" {
		t.Error("disconnect should still report a status")
	}
}

func TestStreamCloseIdempotent(t *testing.T) {
	addr, _ := echoServer(t)

	ep := NewStream("127.0.0.1", addr.Port, &NetDialer{Timeout: 2 * time.Second})
	if err := ep.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := ep.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := ep.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestStreamUseBeforeConnect(t *testing.T) {
	ep := NewStream("127.0.0.1", 9, &NetDialer{})

	if _, err := ep.Send("x"); err == nil {
		t.Error("send before connect should fail")
	}
	if _, err := ep.Receive(); err == nil {
		t.Error("receive before connect should fail")
	}
	if _, err := ep.Disconnect(); err == nil {
		t.Error("disconnect before connect should fail")
	}
	if err := ep.Close(); err != nil {
		t.Errorf("close before connect should be a no-op, got %v", err)
	}
}
