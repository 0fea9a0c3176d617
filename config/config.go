// Package config defines the runtime configuration for gorelay and
// provides helpers for parsing the transport mode and SSH tunnel
// specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	ncerr "gorelay/internal/errors"
)

// Usage is the single-line synopsis shown with every argument error.
const Usage = "usage: gorelay -h <host> -p <port> -m tcp|udp"

// Mode selects the session transport. It is fixed at construction and
// immutable for the session's lifetime.
type Mode string

const (
	ModeTCP Mode = "tcp"
	ModeUDP Mode = "udp"
)

// Network returns the mode as a net package network name.
func (m Mode) Network() string { return string(m) }

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTCP, ModeUDP:
		return Mode(s), nil
	default:
		return "", &ncerr.ConfigError{
			Field: "mode", Value: s,
			Message: "invalid mode, expected tcp or udp",
			Hint:    Usage,
		}
	}
}

// Config holds every tuneable for a single gorelay session.
type Config struct {
	// ── Destination ──────────────────────────────────────────────────
	Host    string
	Port    int
	Mode    Mode
	Timeout time.Duration // datagram receive deadline

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string // raw [user@]host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is complete and internally
// consistent. It is the single gate between argument parsing and
// session construction.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &ncerr.ConfigError{Field: "host", Message: "host is required", Hint: Usage}
	}
	if c.Port == 0 {
		return &ncerr.ConfigError{Field: "port", Message: "port is required", Hint: Usage}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ncerr.ConfigError{
			Field: "port", Value: c.Port,
			Message: "port out of range 1-65535",
			Hint:    Usage,
		}
	}
	if c.Mode == "" {
		return &ncerr.ConfigError{Field: "mode", Message: "mode is required", Hint: Usage}
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}

	if c.TunnelEnabled {
		if c.TunnelHost == "" {
			return &ncerr.ConfigError{Field: "tunnel", Message: "tunnel host is required"}
		}
		if c.Mode == ModeUDP {
			return &ncerr.ConfigError{
				Field: "tunnel",
				Message: "datagram sessions cannot run through an SSH tunnel",
				Hint:    "use -m tcp with -T, or drop -T",
			}
		}
	}

	return nil
}
