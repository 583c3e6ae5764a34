package commands

// Session-level commands: hello, login, logout, and poll (RFC 5730
// Sections 2.3, 2.9.1, 2.9.2).

// Hello renders the bare hello operation. It carries no command element and
// no clTRID; the registry answers with its greeting.
func Hello() string {
	return envelope("<hello/>")
}

// Login describes a session establishment command.
type Login struct {
	ClientID    string
	Password    string
	NewPassword string // optional password change

	// Version and Lang default to "1.0" and "en".
	Version string
	Lang    string

	// Services lists the object namespace URIs the session will use.
	// Defaults to the domain, contact, and host mappings.
	Services []string

	// Extensions lists extension namespace URIs for svcExtension. Optional.
	Extensions []string
}

// XML renders the login command body.
func (l Login) XML() string {
	version := l.Version
	if version == "" {
		version = "1.0"
	}
	lang := l.Lang
	if lang == "" {
		lang = "en"
	}
	services := l.Services
	if len(services) == 0 {
		services = []string{NSDomain, NSContact, NSHost}
	}

	var b xmlBody
	b.raw("<login>")
	b.elem("clID", l.ClientID)
	b.elem("pw", l.Password)
	b.elem("newPW", l.NewPassword)
	b.raw("<options>")
	b.elem("version", version)
	b.elem("lang", lang)
	b.raw("</options>")
	b.raw("<svcs>")
	for _, uri := range services {
		b.elem("objURI", uri)
	}
	if len(l.Extensions) > 0 {
		b.raw("<svcExtension>")
		for _, uri := range l.Extensions {
			b.elem("extURI", uri)
		}
		b.raw("</svcExtension>")
	}
	b.raw("</svcs>")
	b.raw("</login>")
	return command(b.String())
}

// Logout renders the session termination command.
func Logout() string {
	return command("<logout/>")
}

// PollRequest renders a poll command that asks for the head of the message
// queue without dequeuing it.
func PollRequest() string {
	return command(`<poll op="req"/>`)
}

// PollAck renders a poll command acknowledging (dequeuing) the message with
// the given queue id.
func PollAck(msgID string) string {
	return command(`<poll op="ack" msgID="` + Escape(msgID) + `"/>`)
}
