package commands

// Contact object commands per the RFC 5733 mapping.

func contactObject(op, inner string) string {
	return "<" + op + `><contact:` + op + ` xmlns:contact="` + NSContact + `">` + inner + `</contact:` + op + `></` + op + ">"
}

// PostalInfo is a contact's postal address block. Type is "int"
// (internationalized, ASCII) or "loc" (localized); it defaults to int.
type PostalInfo struct {
	Type          string
	Name          string
	Org           string
	Street        []string
	City          string
	StateProvince string
	PostalCode    string
	CountryCode   string
}

func (p PostalInfo) xml() string {
	typ := p.Type
	if typ == "" {
		typ = "int"
	}
	var b xmlBody
	b.raw(`<contact:postalInfo type="` + Escape(typ) + `">`)
	b.elem("contact:name", p.Name)
	b.elem("contact:org", p.Org)
	b.raw("<contact:addr>")
	for _, street := range p.Street {
		b.elem("contact:street", street)
	}
	b.elem("contact:city", p.City)
	b.elem("contact:sp", p.StateProvince)
	b.elem("contact:pc", p.PostalCode)
	b.elem("contact:cc", p.CountryCode)
	b.raw("</contact:addr>")
	b.raw("</contact:postalInfo>")
	return b.String()
}

// ContactCheck renders a check command for one or more contact ids.
func ContactCheck(ids ...string) string {
	var b xmlBody
	for _, id := range ids {
		b.elem("contact:id", id)
	}
	return command(contactObject("check", b.String()))
}

// ContactInfo renders an info command. authInfo is optional.
func ContactInfo(id, authInfo string) string {
	var b xmlBody
	b.elem("contact:id", id)
	if authInfo != "" {
		b.raw("<contact:authInfo>")
		b.elem("contact:pw", authInfo)
		b.raw("</contact:authInfo>")
	}
	return command(contactObject("info", b.String()))
}

// ContactCreate describes a contact create command.
type ContactCreate struct {
	ID         string
	PostalInfo []PostalInfo
	Voice      string
	Fax        string
	Email      string
	AuthInfo   string
}

// XML renders the create command body.
func (c ContactCreate) XML() string {
	var b xmlBody
	b.elem("contact:id", c.ID)
	for _, p := range c.PostalInfo {
		b.raw(p.xml())
	}
	b.elem("contact:voice", c.Voice)
	b.elem("contact:fax", c.Fax)
	b.elem("contact:email", c.Email)
	b.raw("<contact:authInfo>")
	b.elem("contact:pw", c.AuthInfo)
	b.raw("</contact:authInfo>")
	return command(contactObject("create", b.String()))
}

// ContactChange carries the replacement values for a contact update. Nil
// PostalInfo and empty strings leave the corresponding fields untouched.
type ContactChange struct {
	PostalInfo []PostalInfo
	Voice      string
	Fax        string
	Email      string
	AuthInfo   string
}

func (c ContactChange) empty() bool {
	return len(c.PostalInfo) == 0 && c.Voice == "" && c.Fax == "" && c.Email == "" && c.AuthInfo == ""
}

// ContactUpdate describes a contact update command.
type ContactUpdate struct {
	ID             string
	AddStatuses    []Status
	RemoveStatuses []Status
	Change         ContactChange
}

// XML renders the update command body.
func (c ContactUpdate) XML() string {
	var b xmlBody
	b.elem("contact:id", c.ID)
	if len(c.AddStatuses) > 0 {
		b.raw("<contact:add>")
		for _, s := range c.AddStatuses {
			b.raw(s.xml("contact"))
		}
		b.raw("</contact:add>")
	}
	if len(c.RemoveStatuses) > 0 {
		b.raw("<contact:rem>")
		for _, s := range c.RemoveStatuses {
			b.raw(s.xml("contact"))
		}
		b.raw("</contact:rem>")
	}
	if !c.Change.empty() {
		b.raw("<contact:chg>")
		for _, p := range c.Change.PostalInfo {
			b.raw(p.xml())
		}
		b.elem("contact:voice", c.Change.Voice)
		b.elem("contact:fax", c.Change.Fax)
		b.elem("contact:email", c.Change.Email)
		if c.Change.AuthInfo != "" {
			b.raw("<contact:authInfo>")
			b.elem("contact:pw", c.Change.AuthInfo)
			b.raw("</contact:authInfo>")
		}
		b.raw("</contact:chg>")
	}
	return command(contactObject("update", b.String()))
}

// ContactDelete renders a delete command for a contact id.
func ContactDelete(id string) string {
	var b xmlBody
	b.elem("contact:id", id)
	return command(contactObject("delete", b.String()))
}
