// Package cmd wires up the CLI flags and dispatches to the relay loop.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"gorelay/config"
	"gorelay/internal/relay"
	"gorelay/tunnel"
	"gorelay/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X gorelay/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs one session against the server.
func Execute(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("gorelay", flag.ContinueOnError)

	// ── destination ──────────────────────────────────────────────
	fs.StringVarP(&cfg.Host, "host", "h", cfg.Host, "Server hostname or address")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	var mode string
	fs.StringVarP(&mode, "mode", "m", string(cfg.Mode), "Transport mode: tcp or udp")

	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Datagram response timeout in seconds")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "SSH tunnel via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showHelp, "help", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate arguments and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("gorelay %s\n", version)
		return nil
	}

	cfg.Mode = config.Mode(mode)
	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = config.DefaultExchangeTimeout
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	var tun tunnel.Tunnel
	if cfg.TunnelEnabled {
		tun = tunnel.NewSSHTunnel(&tunnel.GatewayConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
		}, logger)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Info("interactive session: one request per line, Ctrl-D or Ctrl-C to quit")
	}

	return relay.New(cfg, tun, logger).Run(ctx)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `gorelay – line-oriented request/response client v%s

Relays stdin lines to a server, one request per line, and prints each
response.  EOF or Ctrl-C disconnects cleanly.

%s

Options:
`, version, config.Usage)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  gorelay -h calc.example.com -p 2023 -m tcp          Stream session
  gorelay -h calc.example.com -p 2023 -m udp -w 5     Datagram session
  gorelay -T admin@bastion -h internal -p 2023 -m tcp Tunnelled session
  echo "SOLVE (+ 1 2)" | gorelay -h localhost -p 2023 -m tcp
`)
}
