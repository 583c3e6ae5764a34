// Package conn implements the EPP connection: TLS transport, the connection
// state machine, and transaction correlation.
//
// # State Machine
//
// A Connection follows a strict state machine:
//
//	Disconnected → Connecting → Connected → Disconnected
//
// The terminal Disconnected state is reusable: a fresh Connect starts a new
// session on the same Connection.
//
// # Transaction Correlation
//
// EPP pipelines many commands over one ordered TLS stream and correlates
// answers by client transaction id (clTRID), so responses may arrive in any
// order. SendCommand registers a waiter keyed by clTRID before the framed
// bytes reach the socket; both happen under one lock, also shared with
// inbound dispatch, so a response can never arrive ahead of its own waiter.
// Inbound messages that match no waiter — greetings, poll notifications,
// responses whose waiter already timed out — are delivered through the
// notification callbacks instead (see events.go).
//
// # Close Handling
//
// Graceful disconnect, Destroy, and unexpected socket failure all converge
// on one teardown path: the socket reference is cleared, every still-pending
// command is resolved exactly once with the closure reason, and a close
// notification fires if the session had reached Connected.
//
// # Reference
//
// RFC 5730 Section 2 (protocol), RFC 5734 (TCP/TLS transport mapping).
package conn

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	epp "github.com/smnsjas/go-eppclient"
	"github.com/smnsjas/go-eppclient/commands"
	"github.com/smnsjas/go-eppclient/framing"
	"github.com/smnsjas/go-eppclient/response"
)

var (
	// ErrNotConnected is returned when a command or write is attempted on a
	// connection that is not in StateConnected.
	ErrNotConnected = errors.New("conn: not connected")
	// ErrAlreadyConnected is returned by Connect on a connection that is
	// already connecting or connected.
	ErrAlreadyConnected = errors.New("conn: already connected")
	// ErrDuplicateTransactionID is returned when a command reuses a clTRID
	// that is still in flight. This is a caller error; the original waiter
	// is left untouched.
	ErrDuplicateTransactionID = errors.New("conn: transaction id already in flight")
	// ErrClosed is the closure reason when the peer ends the connection
	// without a socket-level error.
	ErrClosed = errors.New("conn: connection closed")
)

// Logger is an optional interface for debug logging.
// If not set, no logging is performed.
type Logger interface {
	// Printf formats and logs a debug message.
	Printf(format string, v ...interface{})
}

// State represents the current state of a Connection.
type State int

const (
	// StateDisconnected is the initial and terminal state.
	StateDisconnected State = iota
	// StateConnecting indicates the TLS handshake is in progress.
	StateConnecting
	// StateConnected indicates the session is established and commands may
	// be sent.
	StateConnected
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Dialer opens the transport for a session. The default dials TLS per the
// connection config; tests substitute an in-memory pipe.
type Dialer func(ctx context.Context, cfg epp.Config) (net.Conn, error)

// DialTLS is the default Dialer: TCP plus a TLS handshake against cfg.Addr(),
// verifying the certificate chain unless cfg.VerifyTLS is off.
func DialTLS(ctx context.Context, cfg epp.Config) (net.Conn, error) {
	d := &tls.Dialer{
		Config: &tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: !cfg.VerifyTLS, // #nosec G402 -- registry OT&E endpoints use self-signed certs
			MinVersion:         tls.VersionTLS12,
		},
	}
	return d.DialContext(ctx, "tcp", cfg.Addr())
}

// outcome is the terminal event of one pending command.
type outcome struct {
	res *response.Result
	err error
}

// pending is a waiting caller keyed by clTRID. It is created when a command
// is dispatched and removed exactly once: by the matching response, by its
// timeout, or by connection teardown. Removal under the connection mutex is
// what makes each waiter resolve at most once.
type pending struct {
	trID  string
	done  chan outcome
	timer *clock.Timer
}

func (p *pending) resolve(out outcome) {
	select {
	case p.done <- out:
	default:
	}
}

// Connection is an EPP client connection. One Connection owns at most one
// TLS session; commands from concurrent goroutines multiplex over it.
type Connection struct {
	cfg epp.Config
	id  uuid.UUID

	mu        sync.Mutex
	state     State
	sock      net.Conn
	pending   map[string]*pending
	sessionUp bool
	readDone  chan struct{}

	gen    *commands.IDGenerator
	clk    clock.Clock
	bus    evbus.Bus
	dial   Dialer
	logger Logger
}

// Option configures a Connection at construction time.
type Option func(*Connection)

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(c *Connection) { c.logger = l }
}

// WithClock substitutes the clock used for command timeouts. Tests pass a
// mock clock to drive timers deterministically.
func WithClock(clk clock.Clock) Option {
	return func(c *Connection) { c.clk = clk }
}

// WithDialer substitutes the transport dialer.
func WithDialer(d Dialer) Option {
	return func(c *Connection) { c.dial = d }
}

// New creates a Connection for the given config. The connection starts in
// StateDisconnected; no network activity happens until Connect.
func New(cfg epp.Config, opts ...Option) *Connection {
	c := &Connection{
		cfg:     cfg,
		id:      uuid.New(),
		state:   StateDisconnected,
		pending: make(map[string]*pending),
		gen:     commands.NewIDGenerator(),
		clk:     clock.New(),
		bus:     evbus.New(),
		dial:    DialTLS,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the unique identifier of this connection instance.
func (c *Connection) ID() uuid.UUID {
	return c.id
}

// Config returns the connection configuration.
func (c *Connection) Config() epp.Config {
	return c.cfg
}

// State returns the current connection state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) logf(format string, v ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, v...)
	}
}

// Connect validates the configuration, opens the transport, and starts the
// read loop. It returns a *epp.ConfigError without touching the network when
// the config is invalid, and a *epp.ConnError when the connection is already
// up or the handshake fails. On error the connection is left fully
// disconnected, never partially up.
func (c *Connection) Connect(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return &epp.ConnError{Op: "dial", Err: ErrAlreadyConnected}
	}
	c.state = StateConnecting
	c.mu.Unlock()

	sock, err := c.dial(ctx, c.cfg)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return &epp.ConnError{Op: "dial", Err: err}
	}

	c.mu.Lock()
	c.sock = sock
	c.state = StateConnected
	c.sessionUp = true
	c.readDone = make(chan struct{})
	done := c.readDone
	c.mu.Unlock()

	go c.readLoop(sock, done)

	c.logf("connected to %s", c.cfg.Addr())
	c.emitConnect()
	return nil
}

// Disconnect requests a graceful close and waits for teardown to complete.
// With no active socket it succeeds trivially. Pending commands are not
// failed here directly; closing the socket drives the shared close-handling
// path, which flushes them with a closure error.
func (c *Connection) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	sock := c.sock
	done := c.readDone
	c.mu.Unlock()

	if sock == nil {
		return nil
	}

	closeErr := sock.Close()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if closeErr != nil {
		return &epp.ConnError{Op: "close", Err: closeErr}
	}
	return nil
}

// Destroy forces the socket closed and immediately runs the close-handling
// path, flushing pending commands with the given reason. A nil reason is
// reported as a plain connection closure.
func (c *Connection) Destroy(reason error) {
	c.mu.Lock()
	sock := c.sock
	done := c.readDone
	c.mu.Unlock()

	if sock == nil {
		return
	}
	if reason == nil {
		reason = &epp.ConnError{Op: "close", Err: ErrClosed}
	}
	c.closeWith(reason, sock, done)
}

// SendOption adjusts a single SendCommand call.
type SendOption func(*sendOptions)

type sendOptions struct {
	transactionID string
	timeout       time.Duration
	timeoutSet    bool
}

// WithTransactionID supplies the clTRID instead of generating one. It is
// ignored when the document already carries a non-empty clTRID element.
func WithTransactionID(id string) SendOption {
	return func(o *sendOptions) { o.transactionID = id }
}

// WithTimeout overrides the configured response deadline for one command.
// Zero or negative disables the timer.
func WithTimeout(d time.Duration) SendOption {
	return func(o *sendOptions) {
		o.timeout = d
		o.timeoutSet = true
	}
}

// SendCommand frames and writes a command document, then waits for the
// correlated response. It is the primitive under every higher-level command
// method.
//
// The call resolves exactly once: with the normalized result on success,
// with a *epp.ProtocolError when the registry answers with a failing code,
// with a *epp.TimeoutError when no response arrives in time, or with a
// *epp.ConnError when the write fails or the connection closes while
// waiting. Cancelling ctx abandons the waiter; a response arriving later is
// surfaced as unsolicited.
func (c *Connection) SendCommand(ctx context.Context, xml string, opts ...SendOption) (*response.Result, error) {
	var so sendOptions
	for _, opt := range opts {
		opt(&so)
	}

	c.mu.Lock()
	if c.state != StateConnected || c.sock == nil {
		c.mu.Unlock()
		return nil, &epp.ConnError{Op: "write", Err: ErrNotConnected}
	}

	prepared, trID, err := commands.Prepare(xml, so.transactionID, c.gen)
	if err != nil {
		c.mu.Unlock()
		return nil, &epp.ParseError{Err: err}
	}
	if _, exists := c.pending[trID]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTransactionID, trID)
	}

	timeout := c.cfg.Timeout
	if so.timeoutSet {
		timeout = so.timeout
	}

	p := &pending{trID: trID, done: make(chan outcome, 1)}
	c.pending[trID] = p
	if timeout > 0 {
		p.timer = c.clk.AfterFunc(timeout, func() { c.expire(trID, timeout) })
	}

	// Registration and write share the lock that inbound dispatch takes, so
	// the response cannot be processed before the waiter exists. The lock
	// also serializes concurrent writers on the one socket.
	if _, werr := c.sock.Write(framing.Encode([]byte(prepared))); werr != nil {
		delete(c.pending, trID)
		if p.timer != nil {
			p.timer.Stop()
		}
		c.mu.Unlock()
		return nil, &epp.ConnError{Op: "write", Err: werr}
	}
	c.mu.Unlock()

	c.logf("sent command %s (%d bytes)", trID, len(prepared))
	c.emitSent(trID, prepared)

	select {
	case out := <-p.done:
		return out.res, out.err
	case <-ctx.Done():
		c.remove(trID)
		return nil, ctx.Err()
	}
}

// Hello writes the hello operation. It registers no waiter: hello carries no
// clTRID and the registry answers with a greeting, delivered through the
// greeting notification.
func (c *Connection) Hello() error {
	c.mu.Lock()
	if c.state != StateConnected || c.sock == nil {
		c.mu.Unlock()
		return &epp.ConnError{Op: "write", Err: ErrNotConnected}
	}
	xml := commands.Hello()
	_, err := c.sock.Write(framing.Encode([]byte(xml)))
	c.mu.Unlock()

	if err != nil {
		return &epp.ConnError{Op: "write", Err: err}
	}
	c.emitSent("", xml)
	return nil
}

// expire resolves a pending command with a timeout error. The waiter is
// removed before the caller is resolved, so a very late response for the
// same clTRID is treated as unmatched rather than delivered twice.
func (c *Connection) expire(trID string, timeout time.Duration) {
	c.mu.Lock()
	p, ok := c.pending[trID]
	if ok {
		delete(c.pending, trID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	c.logf("command %s timed out after %s", trID, timeout)
	p.resolve(outcome{err: &epp.TimeoutError{TransactionID: trID, Timeout: timeout}})
}

// remove drops a waiter without resolving it (context cancellation).
func (c *Connection) remove(trID string) {
	c.mu.Lock()
	p, ok := c.pending[trID]
	if ok {
		delete(c.pending, trID)
	}
	c.mu.Unlock()

	if ok && p.timer != nil {
		p.timer.Stop()
	}
}

// readLoop consumes the socket for one session, reassembling frames and
// dispatching each payload. Each session gets a fresh framing decoder, so a
// partial frame from a dead session can never bleed into the next one.
func (c *Connection) readLoop(sock net.Conn, done chan struct{}) {
	dec := framing.NewDecoder()
	buf := make([]byte, 4096)

	for {
		n, err := sock.Read(buf)
		if n > 0 {
			payloads, ferr := dec.Feed(buf[:n])
			for _, payload := range payloads {
				c.dispatch(payload)
			}
			if ferr != nil {
				c.closeWith(&epp.ConnError{Op: "read", Err: ferr}, sock, done)
				return
			}
		}
		if err != nil {
			var reason error
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				reason = &epp.ConnError{Op: "close", Err: ErrClosed}
			} else {
				reason = &epp.ConnError{Op: "read", Err: err}
			}
			c.closeWith(reason, sock, done)
			return
		}
	}
}

// dispatch normalizes one inbound payload and routes it: to the matching
// waiter if one exists, otherwise out through the notification callbacks.
func (c *Connection) dispatch(payload []byte) {
	c.emitReceived(payload)

	res, err := response.Normalize(payload)
	if err != nil {
		c.logf("discarding unparseable message: %v", err)
		c.emitError(&epp.ParseError{Err: err})
		return
	}
	c.emitMessage(res)

	if res.Kind == response.KindGreeting {
		c.logf("greeting received")
		c.emitGreeting(res)
		return
	}

	c.mu.Lock()
	p, ok := c.pending[res.ClTRID]
	if ok {
		delete(c.pending, res.ClTRID)
	}
	c.mu.Unlock()

	if !ok {
		c.logf("unmatched response for clTRID %q", res.ClTRID)
		c.emitResponse(res)
		if !res.OK() {
			// A failing response with no waiting caller still needs to be
			// observable somewhere.
			c.emitError(&epp.ProtocolError{Code: res.Code, Result: res})
		}
		return
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	if res.OK() {
		p.resolve(outcome{res: res})
	} else {
		p.resolve(outcome{err: &epp.ProtocolError{Code: res.Code, Result: res}})
	}
}

// closeWith is the shared teardown path for graceful disconnect, Destroy,
// and unexpected socket failure. It runs at most once per session: the sock
// identity check under the mutex decides the winner when the read loop and
// Destroy race.
func (c *Connection) closeWith(reason error, sock net.Conn, done chan struct{}) {
	c.mu.Lock()
	if c.sock != sock || sock == nil {
		c.mu.Unlock()
		return
	}
	c.sock = nil
	c.state = StateDisconnected
	wasUp := c.sessionUp
	c.sessionUp = false
	flushed := c.pending
	c.pending = make(map[string]*pending)
	c.mu.Unlock()

	_ = sock.Close()

	for _, p := range flushed {
		if p.timer != nil {
			p.timer.Stop()
		}
		p.resolve(outcome{err: reason})
	}

	if done != nil {
		close(done)
	}
	c.logf("connection closed: %v", reason)
	if wasUp {
		c.emitClose(reason)
	}
}
