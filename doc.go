// Package epp provides a pure Go client for the Extensible Provisioning
// Protocol (EPP), the XML-over-TLS protocol registrars use to manage domains,
// contacts, and hosts at domain name registries.
//
// This library implements the RFC 5730 command/response machinery and the
// RFC 5734 TLS transport mapping. It handles framing, command construction,
// response normalization, and transaction correlation; per-registry
// extensions are passed through opaquely.
//
// # Architecture
//
// The library is organized into layers:
//
//   - conn: Connection lifecycle, transaction correlation, high-level commands
//   - commands: EPP command rendering and client transaction id handling
//   - response: Response parsing and result code normalization
//   - framing: RFC 5734 length-prefixed message framing
//
// The root package holds the connection configuration and the shared error
// model.
//
// # Basic Usage
//
//	cfg := epp.Config{Host: "epp.example-registry.net", Port: 700, Timeout: 30 * time.Second}
//	c := conn.New(cfg)
//
//	if err := c.Connect(ctx); err != nil {
//	    return err
//	}
//	defer c.Disconnect(ctx)
//
//	res, err := c.Login(ctx, commands.Login{ClientID: "reg-1", Password: "secret"})
//	if err != nil {
//	    return err
//	}
//
//	res, err = c.DomainCheck(ctx, "example.com")
//
// # Concurrency
//
// A Connection owns exactly one TLS session. Multiple commands may be in
// flight at once; responses are matched to callers by client transaction id
// (clTRID), so callers may invoke commands from concurrent goroutines.
// Unsolicited messages (greetings, responses with no waiting caller) are
// delivered through the connection's notification callbacks.
//
// # Reference
//
// Protocol specification: RFC 5730 (EPP), RFC 5731-5733 (domain, host,
// contact mappings), RFC 5734 (transport over TCP/TLS).
package epp

// Version is the library version.
const Version = "0.1.0-dev"
