package commands

import (
	"strings"
	"testing"
	"time"
)

func TestPrepareInjectsID(t *testing.T) {
	gen := NewIDGenerator()
	xml := `<epp><command><check/></command></epp>`

	out, id, err := Prepare(xml, "", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated transaction id")
	}
	want := "<clTRID>" + id + "</clTRID></command>"
	if !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
	if strings.Count(out, "<clTRID>") != 1 {
		t.Errorf("expected exactly one clTRID element, got %d", strings.Count(out, "<clTRID>"))
	}
}

func TestPrepareProvidedID(t *testing.T) {
	gen := NewIDGenerator()
	out, id, err := Prepare(`<epp><command><check/></command></epp>`, "my-id-1", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id != "my-id-1" {
		t.Errorf("id = %q, want my-id-1", id)
	}
	if !strings.Contains(out, "<clTRID>my-id-1</clTRID>") {
		t.Errorf("output missing provided id: %q", out)
	}
}

func TestPrepareExistingID(t *testing.T) {
	gen := NewIDGenerator()
	xml := `<epp><command><check/><clTRID>existing-7</clTRID></command></epp>`

	out, id, err := Prepare(xml, "ignored", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id != "existing-7" {
		t.Errorf("id = %q, want existing-7", id)
	}
	if out != xml {
		t.Errorf("document was modified: %q", out)
	}
}

func TestPrepareExistingIDWhitespace(t *testing.T) {
	gen := NewIDGenerator()
	xml := "<epp><command><check/><clTRID>\n  padded-1  \n</clTRID></command></epp>"

	_, id, err := Prepare(xml, "", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id != "padded-1" {
		t.Errorf("id = %q, want padded-1", id)
	}
}

func TestPrepareEmptyIDSubstituted(t *testing.T) {
	gen := NewIDGenerator()
	xml := `<epp><command><check/><clTRID></clTRID></command></epp>`

	out, id, err := Prepare(xml, "fill-me", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id != "fill-me" {
		t.Errorf("id = %q, want fill-me", id)
	}
	if !strings.Contains(out, "<clTRID>fill-me</clTRID>") {
		t.Errorf("empty clTRID not substituted: %q", out)
	}

	// No provided id: a generated one is substituted.
	out, id, err = Prepare(xml, "", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id == "" || !strings.Contains(out, "<clTRID>"+id+"</clTRID>") {
		t.Errorf("generated id %q not substituted: %q", id, out)
	}
}

func TestPrepareMissingCommandClose(t *testing.T) {
	gen := NewIDGenerator()
	_, _, err := Prepare(`<epp><hello/></epp>`, "", gen)
	if err != ErrNoCommandClose {
		t.Fatalf("err = %v, want ErrNoCommandClose", err)
	}
}

func TestIDGeneratorUnique(t *testing.T) {
	gen := NewIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Next()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestIDGeneratorInstanceScoped(t *testing.T) {
	// Two generators frozen at the same instant must still mint distinct ids.
	now := time.Now()
	a := NewIDGenerator()
	b := NewIDGenerator()
	a.now = func() time.Time { return now }
	b.now = func() time.Time { return now }

	if a.Next() == b.Next() {
		t.Error("ids from independent generators collided")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `<script>&"'`, want: "&lt;script&gt;&amp;&quot;&apos;"},
		{in: "plain", want: "plain"},
		{in: "a&b&c", want: "a&amp;b&amp;c"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHelloEnvelope(t *testing.T) {
	xml := Hello()
	if !strings.HasPrefix(xml, Header) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(xml, `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><hello/></epp>`) {
		t.Errorf("unexpected hello document: %q", xml)
	}
	if strings.Contains(xml, "<command>") || strings.Contains(xml, "clTRID") {
		t.Error("hello must not carry a command element or clTRID")
	}
}

func TestLoginEscapesValues(t *testing.T) {
	xml := Login{ClientID: "reg<1>", Password: `p&ss"word'`}.XML()

	if !strings.Contains(xml, "<clID>reg&lt;1&gt;</clID>") {
		t.Errorf("client id not escaped: %q", xml)
	}
	if !strings.Contains(xml, "<pw>p&amp;ss&quot;word&apos;</pw>") {
		t.Errorf("password not escaped: %q", xml)
	}
	for _, raw := range []string{`"word`, "'", "<1>"} {
		if strings.Contains(xml, raw) {
			t.Errorf("raw metacharacter sequence %q present in %q", raw, xml)
		}
	}
}

func TestLoginDefaults(t *testing.T) {
	xml := Login{ClientID: "reg-1", Password: "pw"}.XML()

	for _, want := range []string{
		"<version>1.0</version>",
		"<lang>en</lang>",
		"<objURI>" + NSDomain + "</objURI>",
		"<objURI>" + NSContact + "</objURI>",
		"<objURI>" + NSHost + "</objURI>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("login missing %q: %q", want, xml)
		}
	}
	if strings.Contains(xml, "svcExtension") {
		t.Error("svcExtension emitted with no extensions")
	}
}

func TestDomainCheck(t *testing.T) {
	xml := DomainCheck("example.com", "example.net")

	if !strings.Contains(xml, `<domain:check xmlns:domain="urn:ietf:params:xml:ns:domain-1.0">`) {
		t.Errorf("missing domain namespace declaration: %q", xml)
	}
	if !strings.Contains(xml, "<domain:name>example.com</domain:name><domain:name>example.net</domain:name>") {
		t.Errorf("missing domain names: %q", xml)
	}

	// check bodies run through Prepare like any other command
	gen := NewIDGenerator()
	out, id, err := Prepare(xml, "t1", gen)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if id != "t1" || !strings.Contains(out, "<clTRID>t1</clTRID></command>") {
		t.Errorf("clTRID not injected before command close: %q", out)
	}
}

func TestDomainCreate(t *testing.T) {
	xml := DomainCreate{
		Name:       "example.com",
		Period:     Period{Value: 2},
		NS:         []string{"ns1.example.net"},
		Registrant: "reg-77",
		Contacts:   []DomainContact{{Type: "admin", ID: "adm-1"}},
		AuthInfo:   "2fooBAR",
	}.XML()

	for _, want := range []string{
		`<domain:period unit="y">2</domain:period>`,
		"<domain:ns><domain:hostObj>ns1.example.net</domain:hostObj></domain:ns>",
		"<domain:registrant>reg-77</domain:registrant>",
		`<domain:contact type="admin">adm-1</domain:contact>`,
		"<domain:authInfo><domain:pw>2fooBAR</domain:pw></domain:authInfo>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("create missing %q: %q", want, xml)
		}
	}
}

func TestDomainUpdateSections(t *testing.T) {
	xml := DomainUpdate{
		Name:          "example.com",
		AddStatuses:   []Status{{Code: "clientHold", Reason: "payment overdue"}},
		RemoveNS:      []string{"ns2.example.net"},
		NewRegistrant: "reg-88",
	}.XML()

	for _, want := range []string{
		`<domain:add><domain:status s="clientHold">payment overdue</domain:status></domain:add>`,
		"<domain:rem><domain:ns><domain:hostObj>ns2.example.net</domain:hostObj></domain:ns></domain:rem>",
		"<domain:chg><domain:registrant>reg-88</domain:registrant></domain:chg>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("update missing %q: %q", want, xml)
		}
	}

	// Empty sections are omitted entirely.
	bare := DomainUpdate{Name: "example.com"}.XML()
	for _, absent := range []string{"domain:add", "domain:rem", "domain:chg"} {
		if strings.Contains(bare, absent) {
			t.Errorf("bare update contains %q: %q", absent, bare)
		}
	}
}

func TestDomainTransferOpAttribute(t *testing.T) {
	xml := DomainTransfer{Op: "request", Name: "example.com", Period: Period{Value: 1}, AuthInfo: "2fooBAR"}.XML()
	if !strings.Contains(xml, `<transfer op="request">`) {
		t.Errorf("missing transfer op attribute: %q", xml)
	}
	if !strings.Contains(xml, "<domain:authInfo><domain:pw>2fooBAR</domain:pw></domain:authInfo>") {
		t.Errorf("missing authInfo: %q", xml)
	}
}

func TestPollCommands(t *testing.T) {
	if req := PollRequest(); !strings.Contains(req, `<poll op="req"/>`) {
		t.Errorf("unexpected poll request: %q", req)
	}
	ack := PollAck(`12345"67`)
	if !strings.Contains(ack, `<poll op="ack" msgID="12345&quot;67"/>`) {
		t.Errorf("msgID attribute not escaped: %q", ack)
	}
}

func TestContactCreatePostalInfo(t *testing.T) {
	xml := ContactCreate{
		ID: "sh8013",
		PostalInfo: []PostalInfo{{
			Name:          "John O'Reilly",
			Street:        []string{"123 Example Dr.", "Suite 100"},
			City:          "Dulles",
			StateProvince: "VA",
			PostalCode:    "20166-6503",
			CountryCode:   "US",
		}},
		Voice:    "+1.7035555555",
		Email:    "jdoe@example.com",
		AuthInfo: "2fooBAR",
	}.XML()

	for _, want := range []string{
		`<contact:create xmlns:contact="urn:ietf:params:xml:ns:contact-1.0">`,
		`<contact:postalInfo type="int">`,
		"<contact:name>John O&apos;Reilly</contact:name>",
		"<contact:street>123 Example Dr.</contact:street><contact:street>Suite 100</contact:street>",
		"<contact:cc>US</contact:cc>",
		"<contact:voice>+1.7035555555</contact:voice>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("contact create missing %q: %q", want, xml)
		}
	}
}

func TestHostCreateAddrs(t *testing.T) {
	xml := HostCreate{
		Name: "ns1.example.com",
		Addrs: []HostAddr{
			{IP: "192.0.2.2"},
			{IP: "2001:db8::1", Version: "v6"},
		},
	}.XML()

	for _, want := range []string{
		`<host:create xmlns:host="urn:ietf:params:xml:ns:host-1.0">`,
		`<host:addr ip="v4">192.0.2.2</host:addr>`,
		`<host:addr ip="v6">2001:db8::1</host:addr>`,
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("host create missing %q: %q", want, xml)
		}
	}
}

func TestHostUpdateRename(t *testing.T) {
	xml := HostUpdate{Name: "ns1.example.com", NewName: "ns2.example.com"}.XML()
	if !strings.Contains(xml, "<host:chg><host:name>ns2.example.com</host:name></host:chg>") {
		t.Errorf("rename missing: %q", xml)
	}
}
