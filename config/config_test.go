package config

import (
	"strings"
	"testing"
)

// ── ParseMode ────────────────────────────────────────────────────────

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"tcp", ModeTCP, false},
		{"udp", ModeUDP, false},
		{"", "", true},
		{"TCP", "", true}, // modes are case-sensitive, like the flag doc says
		{"icmp", "", true},
		{"tcp4", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err == nil && m != tt.want {
				t.Errorf("got %q, want %q", m, tt.want)
			}
		})
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantSub string // substring expected in error ("" = valid)
	}{
		{"valid tcp", Config{Host: "h", Port: 2023, Mode: ModeTCP}, ""},
		{"valid udp", Config{Host: "h", Port: 2023, Mode: ModeUDP}, ""},
		{"missing host", Config{Port: 2023, Mode: ModeTCP}, "host is required"},
		{"missing port", Config{Host: "h", Mode: ModeTCP}, "port is required"},
		{"port too high", Config{Host: "h", Port: 70000, Mode: ModeTCP}, "out of range"},
		{"negative port", Config{Host: "h", Port: -1, Mode: ModeTCP}, "out of range"},
		{"missing mode", Config{Host: "h", Port: 2023}, "mode is required"},
		{"bad mode", Config{Host: "h", Port: 2023, Mode: "icmp"}, "expected tcp or udp"},
		{
			"tunnel over udp",
			Config{Host: "h", Port: 2023, Mode: ModeUDP, TunnelEnabled: true, TunnelHost: "gw"},
			"SSH tunnel",
		},
		{
			"tunnel without host",
			Config{Host: "h", Port: 2023, Mode: ModeTCP, TunnelEnabled: true},
			"tunnel host is required",
		},
		{
			"valid tunnel",
			Config{Host: "h", Port: 2023, Mode: ModeTCP, TunnelEnabled: true, TunnelHost: "gw"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantSub == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

// TestValidate_UsageHint verifies argument errors carry the usage line.
func TestValidate_UsageHint(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Host: "h"},
		{Host: "h", Port: 2023},
		{Host: "h", Port: 2023, Mode: "quic"},
	} {
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("config %+v should not validate", cfg)
		}
		if !strings.Contains(err.Error(), "usage:") {
			t.Errorf("error %q should carry the usage line", err.Error())
		}
	}
}

// ── ParseTunnelSpec ──────────────────────────────────────────────────

func TestParseTunnelSpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTunnelSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}
