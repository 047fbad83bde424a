package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(`
app:
  server:
    http:
      read_timeout_seconds: 3
mfa:
  totp:
    issuer: acme
list:
  - " a "
  - ""
  - b
`))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	if got := cfg.GetString("mfa.totp.issuer"); got != "acme" {
		t.Fatalf("issuer = %q, want acme", got)
	}
	if got := cfg.GetSecond("app.server.http.read_timeout_seconds"); got != 3*time.Second {
		t.Fatalf("read timeout = %v, want 3s", got)
	}
	if got := cfg.GetUint("mfa.totp.period"); got != 30 {
		t.Fatalf("default period = %d, want 30", got)
	}
	if got := cfg.GetMillisecond("messaging.kafka.batch_timeout_ms"); got != 10*time.Millisecond {
		t.Fatalf("default kafka batch timeout = %v, want 10ms", got)
	}
	if got := cfg.GetString("modules.account.route_prefix"); got != "/auth" {
		t.Fatalf("default route prefix = %q", got)
	}
	if got := cfg.GetArray("list"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("GetArray(list) = %v", got)
	}
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", nil); err == nil {
		t.Fatal("expected error for empty config type")
	}
}

func TestViper_GetArrayCommaString(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("origins: \"http://a, ,http://b\"\n"))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	if got := cfg.GetArray("origins"); !reflect.DeepEqual(got, []string{"http://a", "http://b"}) {
		t.Fatalf("GetArray(origins) = %v", got)
	}
	if got := cfg.GetArray("missing"); len(got) != 0 {
		t.Fatalf("GetArray(missing) = %v, want empty", got)
	}
}

func TestNewViper_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewViper(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}

	if got := cfg.GetString("app.server.http.address"); got != "0.0.0.0:3000" {
		t.Fatalf("address = %q, want default", got)
	}
}

func TestNewViper_ServerIPPortEnv(t *testing.T) {
	t.Setenv("SERVER_IP_PORT", "127.0.0.1:9999")

	cfg, err := NewViper(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}

	if got := cfg.GetString("app.server.http.address"); got != "127.0.0.1:9999" {
		t.Fatalf("address = %q, want SERVER_IP_PORT value", got)
	}
}

func TestNewViper_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("messaging:\n  driver: memory\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetString("messaging.driver"); got != "memory" {
		t.Fatalf("driver = %q, want memory", got)
	}
}
