package conn

import (
	"context"

	"github.com/smnsjas/go-eppclient/commands"
	"github.com/smnsjas/go-eppclient/response"
)

// Higher-level command methods. Each is a thin caller of SendCommand: render
// the command body, send, hand back the normalized result. Projection of the
// object-specific resData is left to the caller, which knows which mapping
// it asked for; response.ChildByTag and response.FirstText walk the subtree.

// Login establishes the session after connect.
func (c *Connection) Login(ctx context.Context, l commands.Login) (*response.Result, error) {
	return c.SendCommand(ctx, l.XML())
}

// Logout ends the session. Registries close the connection after answering,
// so expect a close notification shortly after.
func (c *Connection) Logout(ctx context.Context) (*response.Result, error) {
	return c.SendCommand(ctx, commands.Logout())
}

// PollRequest asks for the head of the message queue without dequeuing it.
func (c *Connection) PollRequest(ctx context.Context) (*response.Result, error) {
	return c.SendCommand(ctx, commands.PollRequest())
}

// PollAck acknowledges and dequeues the message with the given queue id.
func (c *Connection) PollAck(ctx context.Context, msgID string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.PollAck(msgID))
}

// DomainCheck queries availability for one or more domain names.
func (c *Connection) DomainCheck(ctx context.Context, names ...string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.DomainCheck(names...))
}

// DomainInfo queries a domain object. hosts and authInfo may be empty.
func (c *Connection) DomainInfo(ctx context.Context, name, hosts, authInfo string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.DomainInfo(name, hosts, authInfo))
}

// DomainCreate registers a domain.
func (c *Connection) DomainCreate(ctx context.Context, d commands.DomainCreate) (*response.Result, error) {
	return c.SendCommand(ctx, d.XML())
}

// DomainUpdate modifies a domain object.
func (c *Connection) DomainUpdate(ctx context.Context, d commands.DomainUpdate) (*response.Result, error) {
	return c.SendCommand(ctx, d.XML())
}

// DomainDelete removes a domain object.
func (c *Connection) DomainDelete(ctx context.Context, name string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.DomainDelete(name))
}

// DomainRenew extends a domain registration.
func (c *Connection) DomainRenew(ctx context.Context, name, curExpDate string, period commands.Period) (*response.Result, error) {
	return c.SendCommand(ctx, commands.DomainRenew(name, curExpDate, period))
}

// DomainTransfer manages a domain transfer (request, query, approve,
// reject, cancel).
func (c *Connection) DomainTransfer(ctx context.Context, d commands.DomainTransfer) (*response.Result, error) {
	return c.SendCommand(ctx, d.XML())
}

// ContactCheck queries availability for one or more contact ids.
func (c *Connection) ContactCheck(ctx context.Context, ids ...string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.ContactCheck(ids...))
}

// ContactInfo queries a contact object. authInfo may be empty.
func (c *Connection) ContactInfo(ctx context.Context, id, authInfo string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.ContactInfo(id, authInfo))
}

// ContactCreate registers a contact.
func (c *Connection) ContactCreate(ctx context.Context, cc commands.ContactCreate) (*response.Result, error) {
	return c.SendCommand(ctx, cc.XML())
}

// ContactUpdate modifies a contact object.
func (c *Connection) ContactUpdate(ctx context.Context, cu commands.ContactUpdate) (*response.Result, error) {
	return c.SendCommand(ctx, cu.XML())
}

// ContactDelete removes a contact object.
func (c *Connection) ContactDelete(ctx context.Context, id string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.ContactDelete(id))
}

// HostCheck queries availability for one or more host names.
func (c *Connection) HostCheck(ctx context.Context, names ...string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.HostCheck(names...))
}

// HostInfo queries a host object.
func (c *Connection) HostInfo(ctx context.Context, name string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.HostInfo(name))
}

// HostCreate registers a host object.
func (c *Connection) HostCreate(ctx context.Context, h commands.HostCreate) (*response.Result, error) {
	return c.SendCommand(ctx, h.XML())
}

// HostUpdate modifies a host object.
func (c *Connection) HostUpdate(ctx context.Context, h commands.HostUpdate) (*response.Result, error) {
	return c.SendCommand(ctx, h.XML())
}

// HostDelete removes a host object.
func (c *Connection) HostDelete(ctx context.Context, name string) (*response.Result, error) {
	return c.SendCommand(ctx, commands.HostDelete(name))
}
