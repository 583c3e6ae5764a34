package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	epp "github.com/smnsjas/go-eppclient"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "epp.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
host = "epp.registry.test"
port = 3121
verify_tls = false
timeout = "5s"
username = "reg-1"
password = "hunter2"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	want := epp.Config{Host: "epp.registry.test", Port: 3121, VerifyTLS: false, Timeout: 5 * time.Second}
	if cfg.Conn != want {
		t.Errorf("conn config = %+v, want %+v", cfg.Conn, want)
	}
	if cfg.Username != "reg-1" || cfg.Password != "hunter2" {
		t.Errorf("credentials = %q / %q", cfg.Username, cfg.Password)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `host = "epp.registry.test"`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Conn.Port != epp.DefaultPort {
		t.Errorf("port = %d, want default %d", cfg.Conn.Port, epp.DefaultPort)
	}
	if !cfg.Conn.VerifyTLS {
		t.Error("verify_tls should default on")
	}
	if cfg.Conn.Timeout != epp.DefaultTimeout {
		t.Errorf("timeout = %s, want default %s", cfg.Conn.Timeout, epp.DefaultTimeout)
	}
}

func TestLoadConfigBadTimeout(t *testing.T) {
	path := writeConfig(t, `
host = "epp.registry.test"
timeout = "soonish"
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
