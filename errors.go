package epp

import (
	"fmt"
	"time"

	"github.com/smnsjas/go-eppclient/response"
)

// The error model distinguishes five failure kinds so callers can branch with
// errors.As: configuration problems fail fast, connection and timeout errors
// are candidates for caller-side retry, parse errors indicate a malformed
// server, and protocol errors carry the registry's own result code.

// ConfigError reports an invalid connection configuration. It is returned
// before any network activity takes place.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("epp: invalid config: %s %s", e.Field, e.Reason)
}

// ConnError reports a transport-level failure: a TLS handshake error, a write
// failure, or the connection closing while commands were outstanding.
type ConnError struct {
	// Op names the operation that failed ("dial", "write", "close", "read").
	Op string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConnError) Error() string {
	if e.Err == nil {
		return "epp: connection " + e.Op
	}
	return fmt.Sprintf("epp: connection %s: %v", e.Op, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

// TimeoutError reports that no response arrived for a command within its
// deadline. The pending entry has already been removed when the caller sees
// this error; a late response for the same clTRID is surfaced as an
// unsolicited response instead.
type TimeoutError struct {
	TransactionID string
	Timeout       time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("epp: command %s timed out after %s", e.TransactionID, e.Timeout)
}

// ParseError reports XML that could not be parsed or a message that does not
// fit the EPP envelope shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("epp: parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProtocolError reports a well-formed registry response whose result code
// indicates failure (code >= 2000, RFC 5730 section 3). Code is nil when the
// response carried no parseable code; Result holds the full normalized
// response for callers that need more than the message string.
type ProtocolError struct {
	Code   *int
	Result *response.Result
}

func (e *ProtocolError) Error() string {
	msg := "registry reported failure"
	if e.Result != nil && e.Result.Message != "" {
		msg = e.Result.Message
	}
	if e.Code != nil {
		return fmt.Sprintf("epp: result %d: %s", *e.Code, msg)
	}
	return "epp: " + msg
}
