package tunnel

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"

	"gorelay/util"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublicKeyAuth(t *testing.T) {
	m, err := publicKeyAuth(writeTestKey(t))
	if err != nil {
		t.Fatalf("publicKeyAuth: %v", err)
	}
	if m == nil {
		t.Fatal("nil auth method")
	}
}

func TestPublicKeyAuthMissingFile(t *testing.T) {
	if _, err := publicKeyAuth(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for a missing key file")
	}
}

func TestBuildAuthMethodsExplicitKey(t *testing.T) {
	cfg := &GatewayConfig{KeyPath: writeTestKey(t)}

	methods, err := buildAuthMethods(cfg)
	if err != nil {
		t.Fatalf("buildAuthMethods: %v", err)
	}
	if len(methods) != 1 {
		t.Errorf("got %d methods, want 1", len(methods))
	}
}

func TestHostKeyCallbackInsecure(t *testing.T) {
	cb, err := hostKeyCallback(&GatewayConfig{}, util.NewLogger(0))
	if err != nil {
		t.Fatalf("hostKeyCallback: %v", err)
	}
	if cb == nil {
		t.Fatal("nil callback")
	}
}

func TestHostKeyCallbackStrictMissingFile(t *testing.T) {
	cfg := &GatewayConfig{
		StrictHostKey: true,
		KnownHosts:    filepath.Join(t.TempDir(), "known_hosts"),
	}
	if _, err := hostKeyCallback(cfg, util.NewLogger(0)); err == nil {
		t.Fatal("expected error for a missing known_hosts file")
	}
}
