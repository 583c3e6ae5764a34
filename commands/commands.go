// Package commands renders EPP command documents and manages client
// transaction ids (clTRID).
//
// # Envelope Structure
//
// Every document this package emits is a well-formed EPP envelope:
//
//	<?xml version="1.0" encoding="UTF-8" standalone="no"?>
//	<epp xmlns="urn:ietf:params:xml:ns:epp-1.0">
//	  <command>
//	    <...operation body...>
//	    <clTRID>client-transaction-id</clTRID>
//	  </command>
//	</epp>
//
// The one exception is hello, which wraps a bare <hello/> with no command
// element and no clTRID (RFC 5730 Section 2.3).
//
// The per-object builders (domain.go, contact.go, host.go, session.go) emit
// the operation body with the object namespace declared on the object
// element, per RFC 5731-5733. They do not emit a clTRID; Prepare injects it
// when the command is dispatched.
//
// # Transaction Ids
//
// Generated clTRIDs combine a per-generator random tag, a wall-clock
// timestamp, and an incrementing counter, so ids are unique per connection
// instance and distinct across concurrent instances in one process. A
// colliding clTRID would misroute the response, so the generator state is
// instance-scoped rather than process-global.
//
// # Escaping
//
// Every caller-supplied value embedded into generated XML passes through
// Escape, which rewrites the five XML metacharacters. This is the sole
// injection defense and applies to attribute values as well as element text.
//
// # Reference
//
// RFC 5730 Section 2.5: https://www.rfc-editor.org/rfc/rfc5730#section-2.5
package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Header is the XML declaration leading every EPP document.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`

// XML namespace URIs for the EPP envelope and the standard object mappings.
const (
	NSEPP     = "urn:ietf:params:xml:ns:epp-1.0"
	NSDomain  = "urn:ietf:params:xml:ns:domain-1.0"
	NSContact = "urn:ietf:params:xml:ns:contact-1.0"
	NSHost    = "urn:ietf:params:xml:ns:host-1.0"
)

// ErrNoCommandClose is returned by Prepare when the document has neither a
// clTRID element nor a closing command tag to inject one before. Passing such
// a document through unmodified would leave the response uncorrelatable, so
// it is rejected instead.
var ErrNoCommandClose = errors.New(`commands: no closing </command> tag found`)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape rewrites the five XML metacharacters in a caller-supplied value so
// it can be embedded in element text or an attribute value.
func Escape(s string) string {
	return escaper.Replace(s)
}

// IDGenerator mints client transaction ids for one connection instance.
// It is safe for concurrent use.
type IDGenerator struct {
	mu      sync.Mutex
	tag     string
	counter uint64
	now     func() time.Time
}

// NewIDGenerator returns a generator with a fresh random tag.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		tag: strings.SplitN(uuid.NewString(), "-", 2)[0],
		now: time.Now,
	}
}

// Next returns a new clTRID of the form tag-millis-counter. The counter
// makes ids minted within the same millisecond distinct; the timestamp keeps
// them monotonically distinguishable across restarts.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d-%d", g.tag, g.now().UnixMilli(), g.counter)
}

var clTRIDPattern = regexp.MustCompile(`(?s)<clTRID>(.*?)</clTRID>`)

// Prepare resolves the client transaction id for an outgoing command
// document and returns the document to put on the wire along with the id a
// response will carry.
//
// If the document already contains a <clTRID> element with non-empty text,
// that text is the transaction id and the document is returned unmodified.
// If the element is present but empty, providedID (or a generated id) is
// substituted into it. If no element is present, the id is injected
// immediately before the first closing </command> tag; a document with
// neither is rejected with ErrNoCommandClose.
func Prepare(xml string, providedID string, gen *IDGenerator) (prepared string, transactionID string, err error) {
	if m := clTRIDPattern.FindStringSubmatchIndex(xml); m != nil {
		existing := strings.TrimSpace(xml[m[2]:m[3]])
		if existing != "" {
			return xml, existing, nil
		}
		id := providedID
		if id == "" {
			id = gen.Next()
		}
		return xml[:m[2]] + Escape(id) + xml[m[3]:], id, nil
	}

	id := providedID
	if id == "" {
		id = gen.Next()
	}
	idx := strings.Index(xml, "</command>")
	if idx < 0 {
		return "", "", ErrNoCommandClose
	}
	return xml[:idx] + "<clTRID>" + Escape(id) + "</clTRID>" + xml[idx:], id, nil
}

// envelope wraps a body in the EPP envelope with the XML declaration.
func envelope(body string) string {
	return Header + `<epp xmlns="` + NSEPP + `">` + body + `</epp>`
}

// command wraps an operation body in <command> inside the envelope. The
// clTRID is left for Prepare to inject at dispatch time.
func command(body string) string {
	return envelope("<command>" + body + "</command>")
}

// elem renders <name>value</name> with the value escaped, or nothing when
// the value is empty. Optional elements all over the object mappings lean on
// the empty case.
func elem(name, value string) string {
	if value == "" {
		return ""
	}
	return "<" + name + ">" + Escape(value) + "</" + name + ">"
}

// xmlBody accumulates an operation body. raw appends literal markup; elem
// appends an escaped, optional element.
type xmlBody struct {
	b strings.Builder
}

func (x *xmlBody) raw(s string) {
	x.b.WriteString(s)
}

func (x *xmlBody) elem(name, value string) {
	x.b.WriteString(elem(name, value))
}

func (x *xmlBody) String() string {
	return x.b.String()
}
