package epp

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	valid := Config{Host: "epp.registry.test", Port: 700, Timeout: time.Second}

	tests := []struct {
		name  string
		cfg   Config
		field string // empty means valid
	}{
		{name: "valid", cfg: valid},
		{name: "zero timeout ok", cfg: valid.WithTimeout(0)},
		{name: "empty host", cfg: valid.WithHost(""), field: "host"},
		{name: "port zero", cfg: valid.WithPort(0), field: "port"},
		{name: "port too high", cfg: valid.WithPort(70000), field: "port"},
		{name: "negative timeout", cfg: valid.WithTimeout(-time.Second), field: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestWithDerivesCopies(t *testing.T) {
	base := DefaultConfig("epp.registry.test")
	derived := base.WithPort(3121).WithTimeout(time.Minute).WithVerifyTLS(false)

	if base.Port != DefaultPort || base.Timeout != DefaultTimeout || !base.VerifyTLS {
		t.Errorf("base config mutated: %+v", base)
	}
	if derived.Port != 3121 || derived.Timeout != time.Minute || derived.VerifyTLS {
		t.Errorf("derived config = %+v", derived)
	}
	// Untouched fields carry over.
	if derived.Host != base.Host {
		t.Errorf("host = %q, want %q", derived.Host, base.Host)
	}
}

func TestAddr(t *testing.T) {
	if got := DefaultConfig("epp.registry.test").Addr(); got != "epp.registry.test:700" {
		t.Errorf("Addr = %q", got)
	}
}
