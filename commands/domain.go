package commands

import "strconv"

// Domain object commands per the RFC 5731 mapping. Each builder declares the
// domain namespace on the object element and leaves the clTRID for Prepare.

// Period is a validity period for create, renew, and transfer commands.
// Unit is "y" (years) or "m" (months); it defaults to years.
type Period struct {
	Value int
	Unit  string
}

func (p Period) xml(ns string) string {
	if p.Value == 0 {
		return ""
	}
	unit := p.Unit
	if unit == "" {
		unit = "y"
	}
	return `<` + ns + `:period unit="` + Escape(unit) + `">` + strconv.Itoa(p.Value) + `</` + ns + `:period>`
}

// DomainContact associates a contact id with a role (admin, tech, billing).
type DomainContact struct {
	Type string
	ID   string
}

func (c DomainContact) xml() string {
	return `<domain:contact type="` + Escape(c.Type) + `">` + Escape(c.ID) + `</domain:contact>`
}

// Status is an object status with an optional human-readable reason, used by
// update commands.
type Status struct {
	Code   string
	Reason string
}

func (s Status) xml(ns string) string {
	if s.Reason == "" {
		return `<` + ns + `:status s="` + Escape(s.Code) + `"/>`
	}
	return `<` + ns + `:status s="` + Escape(s.Code) + `">` + Escape(s.Reason) + `</` + ns + `:status>`
}

func domainObject(op, inner string) string {
	return "<" + op + `><domain:` + op + ` xmlns:domain="` + NSDomain + `">` + inner + `</domain:` + op + `></` + op + ">"
}

// DomainCheck renders a check command for one or more domain names.
func DomainCheck(names ...string) string {
	var b xmlBody
	for _, name := range names {
		b.elem("domain:name", name)
	}
	return command(domainObject("check", b.String()))
}

// DomainInfo renders an info command. hosts selects which delegation data to
// return ("all", "del", "sub", "none"); empty means all. authInfo is the
// domain password for querying objects sponsored by another registrar.
func DomainInfo(name, hosts, authInfo string) string {
	if hosts == "" {
		hosts = "all"
	}
	var b xmlBody
	b.raw(`<domain:name hosts="` + Escape(hosts) + `">` + Escape(name) + `</domain:name>`)
	if authInfo != "" {
		b.raw("<domain:authInfo>")
		b.elem("domain:pw", authInfo)
		b.raw("</domain:authInfo>")
	}
	return command(domainObject("info", b.String()))
}

// DomainCreate describes a domain create command.
type DomainCreate struct {
	Name       string
	Period     Period
	NS         []string
	Registrant string
	Contacts   []DomainContact
	AuthInfo   string
}

// XML renders the create command body.
func (d DomainCreate) XML() string {
	var b xmlBody
	b.elem("domain:name", d.Name)
	b.raw(d.Period.xml("domain"))
	if len(d.NS) > 0 {
		b.raw("<domain:ns>")
		for _, host := range d.NS {
			b.elem("domain:hostObj", host)
		}
		b.raw("</domain:ns>")
	}
	b.elem("domain:registrant", d.Registrant)
	for _, c := range d.Contacts {
		b.raw(c.xml())
	}
	b.raw("<domain:authInfo>")
	b.elem("domain:pw", d.AuthInfo)
	b.raw("</domain:authInfo>")
	return command(domainObject("create", b.String()))
}

// DomainUpdate describes a domain update command. Add and Remove carry
// delegation, contact, and status changes; Change carries replacement
// registrant and authInfo values. Empty sections are omitted.
type DomainUpdate struct {
	Name string

	AddNS          []string
	AddContacts    []DomainContact
	AddStatuses    []Status
	RemoveNS       []string
	RemoveContacts []DomainContact
	RemoveStatuses []Status

	NewRegistrant string
	NewAuthInfo   string
}

// XML renders the update command body.
func (d DomainUpdate) XML() string {
	var b xmlBody
	b.elem("domain:name", d.Name)

	if len(d.AddNS) > 0 || len(d.AddContacts) > 0 || len(d.AddStatuses) > 0 {
		b.raw("<domain:add>")
		d.writeDelta(&b, d.AddNS, d.AddContacts, d.AddStatuses)
		b.raw("</domain:add>")
	}
	if len(d.RemoveNS) > 0 || len(d.RemoveContacts) > 0 || len(d.RemoveStatuses) > 0 {
		b.raw("<domain:rem>")
		d.writeDelta(&b, d.RemoveNS, d.RemoveContacts, d.RemoveStatuses)
		b.raw("</domain:rem>")
	}
	if d.NewRegistrant != "" || d.NewAuthInfo != "" {
		b.raw("<domain:chg>")
		b.elem("domain:registrant", d.NewRegistrant)
		if d.NewAuthInfo != "" {
			b.raw("<domain:authInfo>")
			b.elem("domain:pw", d.NewAuthInfo)
			b.raw("</domain:authInfo>")
		}
		b.raw("</domain:chg>")
	}
	return command(domainObject("update", b.String()))
}

func (d DomainUpdate) writeDelta(b *xmlBody, ns []string, contacts []DomainContact, statuses []Status) {
	if len(ns) > 0 {
		b.raw("<domain:ns>")
		for _, host := range ns {
			b.elem("domain:hostObj", host)
		}
		b.raw("</domain:ns>")
	}
	for _, c := range contacts {
		b.raw(c.xml())
	}
	for _, s := range statuses {
		b.raw(s.xml("domain"))
	}
}

// DomainDelete renders a delete command for a domain name.
func DomainDelete(name string) string {
	var b xmlBody
	b.elem("domain:name", name)
	return command(domainObject("delete", b.String()))
}

// DomainRenew renders a renew command. curExpDate is the current expiry date
// in YYYY-MM-DD form; the registry rejects the renewal if it does not match,
// which guards against double renewal.
func DomainRenew(name, curExpDate string, period Period) string {
	var b xmlBody
	b.elem("domain:name", name)
	b.elem("domain:curExpDate", curExpDate)
	b.raw(period.xml("domain"))
	return command(domainObject("renew", b.String()))
}

// DomainTransfer describes a transfer command. Op is one of "request",
// "query", "approve", "reject", "cancel".
type DomainTransfer struct {
	Op       string
	Name     string
	Period   Period
	AuthInfo string
}

// XML renders the transfer command body.
func (d DomainTransfer) XML() string {
	var b xmlBody
	b.elem("domain:name", d.Name)
	b.raw(d.Period.xml("domain"))
	if d.AuthInfo != "" {
		b.raw("<domain:authInfo>")
		b.elem("domain:pw", d.AuthInfo)
		b.raw("</domain:authInfo>")
	}
	inner := `<transfer op="` + Escape(d.Op) + `"><domain:transfer xmlns:domain="` + NSDomain + `">` +
		b.String() + `</domain:transfer></transfer>`
	return command(inner)
}
