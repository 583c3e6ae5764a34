package commands

// Host object commands per the RFC 5732 mapping.

func hostObject(op, inner string) string {
	return "<" + op + `><host:` + op + ` xmlns:host="` + NSHost + `">` + inner + `</host:` + op + `></` + op + ">"
}

// HostAddr is a glue address for a host object. Version is "v4" or "v6";
// it defaults to v4.
type HostAddr struct {
	IP      string
	Version string
}

func (a HostAddr) xml() string {
	version := a.Version
	if version == "" {
		version = "v4"
	}
	return `<host:addr ip="` + Escape(version) + `">` + Escape(a.IP) + `</host:addr>`
}

// HostCheck renders a check command for one or more host names.
func HostCheck(names ...string) string {
	var b xmlBody
	for _, name := range names {
		b.elem("host:name", name)
	}
	return command(hostObject("check", b.String()))
}

// HostInfo renders an info command for a host name.
func HostInfo(name string) string {
	var b xmlBody
	b.elem("host:name", name)
	return command(hostObject("info", b.String()))
}

// HostCreate describes a host create command. Addrs is required for
// in-bailiwick (subordinate) hosts and forbidden otherwise; the registry
// enforces that, not this layer.
type HostCreate struct {
	Name  string
	Addrs []HostAddr
}

// XML renders the create command body.
func (h HostCreate) XML() string {
	var b xmlBody
	b.elem("host:name", h.Name)
	for _, a := range h.Addrs {
		b.raw(a.xml())
	}
	return command(hostObject("create", b.String()))
}

// HostUpdate describes a host update command. NewName renames the host.
type HostUpdate struct {
	Name string

	AddAddrs       []HostAddr
	AddStatuses    []Status
	RemoveAddrs    []HostAddr
	RemoveStatuses []Status

	NewName string
}

// XML renders the update command body.
func (h HostUpdate) XML() string {
	var b xmlBody
	b.elem("host:name", h.Name)
	if len(h.AddAddrs) > 0 || len(h.AddStatuses) > 0 {
		b.raw("<host:add>")
		for _, a := range h.AddAddrs {
			b.raw(a.xml())
		}
		for _, s := range h.AddStatuses {
			b.raw(s.xml("host"))
		}
		b.raw("</host:add>")
	}
	if len(h.RemoveAddrs) > 0 || len(h.RemoveStatuses) > 0 {
		b.raw("<host:rem>")
		for _, a := range h.RemoveAddrs {
			b.raw(a.xml())
		}
		for _, s := range h.RemoveStatuses {
			b.raw(s.xml("host"))
		}
		b.raw("</host:rem>")
	}
	if h.NewName != "" {
		b.raw("<host:chg>")
		b.elem("host:name", h.NewName)
		b.raw("</host:chg>")
	}
	return command(hostObject("update", b.String()))
}

// HostDelete renders a delete command for a host name.
func HostDelete(name string) string {
	var b xmlBody
	b.elem("host:name", name)
	return command(hostObject("delete", b.String()))
}
