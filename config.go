package epp

import (
	"net"
	"strconv"
	"time"
)

// DefaultPort is the IANA-assigned port for EPP over TLS (RFC 5734).
const DefaultPort = 700

// DefaultTimeout is the default per-command response deadline.
const DefaultTimeout = 30 * time.Second

// Config describes a registry connection. It is an immutable value; derive a
// modified copy with the With* methods rather than mutating fields after the
// Config has been handed to a connection.
type Config struct {
	// Host is the registry server name. Required.
	Host string

	// Port is the registry EPP port, usually 700.
	Port int

	// VerifyTLS controls certificate chain verification. Some registry OT&E
	// environments use self-signed certificates and require this off.
	VerifyTLS bool

	// Timeout is the default deadline for a command response. Zero disables
	// command timeouts. Negative values are invalid.
	Timeout time.Duration
}

// DefaultConfig returns a Config for the given host with the standard port,
// certificate verification on, and the default command timeout.
func DefaultConfig(host string) Config {
	return Config{
		Host:      host,
		Port:      DefaultPort,
		VerifyTLS: true,
		Timeout:   DefaultTimeout,
	}
}

// Validate checks the configuration invariants: non-empty host, port in
// [1,65535], non-negative timeout. It returns a *ConfigError describing the
// first violation found, or nil.
func (c Config) Validate() error {
	if c.Host == "" {
		return &ConfigError{Field: "host", Reason: "must not be empty"}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ConfigError{Field: "port", Reason: "must be in range 1-65535, got " + strconv.Itoa(c.Port)}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Reason: "must not be negative, got " + c.Timeout.String()}
	}
	return nil
}

// Addr returns the dial address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// WithHost returns a copy of the config with the host replaced.
func (c Config) WithHost(host string) Config {
	c.Host = host
	return c
}

// WithPort returns a copy of the config with the port replaced.
func (c Config) WithPort(port int) Config {
	c.Port = port
	return c
}

// WithVerifyTLS returns a copy of the config with certificate verification
// switched on or off.
func (c Config) WithVerifyTLS(verify bool) Config {
	c.VerifyTLS = verify
	return c
}

// WithTimeout returns a copy of the config with the default command timeout
// replaced.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}
