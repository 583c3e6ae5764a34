package conn

import (
	"fmt"
	"log/slog"

	"github.com/smnsjas/go-eppclient/response"
)

// Notifications ride on an event bus with one topic per event kind. Handlers
// run synchronously on the goroutine that raised the event (the read loop
// for inbound events), so their relative order is the protocol order; a
// handler that blocks stalls inbound processing, and a handler must not call
// back into SendCommand directly.
//
// Emission rules, kept as invariants rather than incidental ordering:
//
//   - connect: after every successful Connect
//   - close: exactly once per session, and only if the session had reached
//     Connected
//   - sent / received: raw outbound documents and inbound payloads
//   - message: every inbound message that normalized cleanly
//   - greeting: inbound greetings (they carry no clTRID and never match a
//     waiter)
//   - response: responses that matched no waiter
//   - error: parse failures and failing responses with no waiting caller

const (
	topicConnect  = "connect"
	topicClose    = "close"
	topicError    = "error"
	topicGreeting = "greeting"
	topicMessage  = "message"
	topicResponse = "response"
	topicSent     = "sent"
	topicReceived = "received"
)

// OnConnect registers a handler for successful session establishment.
func (c *Connection) OnConnect(fn func()) {
	_ = c.bus.Subscribe(topicConnect, fn)
}

// OnClose registers a handler for session teardown. The argument is the
// closure reason: a plain closed error for graceful or peer-initiated
// closes, or the socket error that killed the session.
func (c *Connection) OnClose(fn func(error)) {
	_ = c.bus.Subscribe(topicClose, fn)
}

// OnError registers a handler for connection-level errors that have no
// waiting caller to deliver to.
func (c *Connection) OnError(fn func(error)) {
	_ = c.bus.Subscribe(topicError, fn)
}

// OnGreeting registers a handler for registry greetings.
func (c *Connection) OnGreeting(fn func(*response.Result)) {
	_ = c.bus.Subscribe(topicGreeting, fn)
}

// OnMessage registers a handler for every normalized inbound message,
// greetings and responses alike, before correlation.
func (c *Connection) OnMessage(fn func(*response.Result)) {
	_ = c.bus.Subscribe(topicMessage, fn)
}

// OnResponse registers a handler for unsolicited responses: messages that
// matched no pending command, including late responses whose waiter already
// timed out.
func (c *Connection) OnResponse(fn func(*response.Result)) {
	_ = c.bus.Subscribe(topicResponse, fn)
}

// OnSent registers a handler for outbound documents. The transaction id is
// empty for hello, which carries none.
func (c *Connection) OnSent(fn func(transactionID, xml string)) {
	_ = c.bus.Subscribe(topicSent, fn)
}

// OnReceived registers a handler for raw inbound payloads before parsing.
func (c *Connection) OnReceived(fn func(payload []byte)) {
	_ = c.bus.Subscribe(topicReceived, fn)
}

func (c *Connection) emitConnect() { c.bus.Publish(topicConnect) }

func (c *Connection) emitClose(reason error) { c.bus.Publish(topicClose, reason) }

func (c *Connection) emitError(err error) { c.bus.Publish(topicError, err) }

func (c *Connection) emitGreeting(r *response.Result) { c.bus.Publish(topicGreeting, r) }

func (c *Connection) emitMessage(r *response.Result) { c.bus.Publish(topicMessage, r) }

func (c *Connection) emitResponse(r *response.Result) { c.bus.Publish(topicResponse, r) }

func (c *Connection) emitSent(trID, xml string) { c.bus.Publish(topicSent, trID, xml) }

func (c *Connection) emitReceived(payload []byte) { c.bus.Publish(topicReceived, payload) }

// slogAdapter bridges the optional Logger interface to log/slog.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Printf(format string, v ...interface{}) {
	a.l.Debug(fmt.Sprintf(format, v...))
}

// NewSlogLogger wraps a *slog.Logger as a Logger for WithLogger. Messages
// are logged at debug level.
func NewSlogLogger(l *slog.Logger) Logger {
	return slogAdapter{l: l}
}
