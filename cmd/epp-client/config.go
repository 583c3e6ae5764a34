package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	epp "github.com/smnsjas/go-eppclient"
)

// clientConfig is the resolved CLI configuration: connection settings plus
// the session credentials, which the core deliberately knows nothing about.
type clientConfig struct {
	Conn     epp.Config
	Username string
	Password string
}

type fileConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	VerifyTLS bool   `toml:"verify_tls"`
	Timeout   string `toml:"timeout"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// loadConfig reads a TOML config file and layers it over the defaults. Only
// keys present in the file override; flag handling layers on top of the
// result afterwards.
func loadConfig(path string) (clientConfig, error) {
	cfg := clientConfig{Conn: epp.DefaultConfig("")}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Conn = cfg.Conn.WithHost(strings.TrimSpace(raw.Host))
	}
	if meta.IsDefined("port") {
		cfg.Conn = cfg.Conn.WithPort(raw.Port)
	}
	if meta.IsDefined("verify_tls") {
		cfg.Conn = cfg.Conn.WithVerifyTLS(raw.VerifyTLS)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return clientConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Conn = cfg.Conn.WithTimeout(d)
	}
	if meta.IsDefined("username") {
		cfg.Username = raw.Username
	}
	if meta.IsDefined("password") {
		cfg.Password = raw.Password
	}

	return cfg, nil
}
