package imdi

import (
	"strings"

	"github.com/vvka-141/imdix/internal/fields"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func (d *doc) session() *xmlnode.Node {
	g, f := d.g, d.folder
	reg := fields.Session()

	name := f.Field("id")
	if name.IsEmpty() {
		name = imdix.Plain(f.ID)
	}
	title := f.Field("title")
	if title.IsEmpty() {
		title = name
	}

	s := xmlnode.Elem("Session",
		g.emitOne(reg.Must("id"), name),
		g.emitOne(reg.Must("title"), title),
		g.emitOne(reg.Must("date"), f.Field("date")),
	)
	s = s.Append(g.emit(reg.Must("description"), f.Field("description"))...)
	return s.Append(
		xmlnode.Elem("MDGroup",
			d.location(),
			g.projectGroup(),
			g.keys(reg, f.Fields),
			d.content(),
			d.actors(),
		),
		d.resources(),
		xmlnode.Elem("References"),
	)
}

// location falls back to the project's value for every empty component.
func (d *doc) location() *xmlnode.Node {
	g, f, p := d.g, d.folder, d.project()
	reg := fields.Session()

	pick := func(sessionKey, projectKey string) imdix.Value {
		if v := f.Field(sessionKey); !v.IsEmpty() {
			return v
		}
		return p.Field(projectKey)
	}

	address := f.Field("locationAddress")
	if address.IsEmpty() {
		address = f.Field("location")
	}
	if address.IsEmpty() {
		address = p.Field("location")
	}

	return xmlnode.Elem("Location",
		g.emitOne(reg.Must("locationContinent"), pick("locationContinent", "continent")),
		g.emitOne(reg.Must("locationCountry"), pick("locationCountry", "country")),
		g.emitOne(reg.Must("locationRegion"), pick("locationRegion", "region")),
		g.emitOne(reg.Must("locationAddress"), address),
	)
}

// projectGroup is the MDGroup/Project block, identical for every document of
// the run.
func (g *Generator) projectGroup() *xmlnode.Node {
	p := g.project
	reg := fields.Project()

	name := p.Field("id")
	if name.IsEmpty() {
		name = imdix.Plain(p.DirectoryName)
	}
	title := p.Field("fundingProjectTitle")
	if title.IsEmpty() {
		title = p.Field("title")
	}

	n := xmlnode.Elem("Project",
		xmlnode.Leaf("Name", name.Text()),
		g.emitOne(reg.Must("fundingProjectTitle"), title),
		g.emitOne(reg.Must("grantId"), p.Field("grantId")),
		xmlnode.Elem("Contact",
			g.emitOne(reg.Must("contactPerson"), p.Field("contactPerson")),
			g.emitOne(reg.Must("contactEmail"), p.Field("contactEmail")),
			g.emitOne(reg.Must("contactAffiliation"), p.Field("contactAffiliation")),
		),
	)
	return n.Append(g.emit(reg.Must("projectDescription"), p.Field("projectDescription"))...)
}

// keys lists every property without a dedicated slot.
func (g *Generator) keys(reg *fields.Registry, props map[string]imdix.Value) *xmlnode.Node {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	n := xmlnode.Elem("Keys")
	for _, k := range reg.CustomKeys(names) {
		if text := props[k].Text(); text != "" {
			n = n.Append(xmlnode.Leaf("Key", text, xmlnode.Attr{Name: "Name", Value: k}))
		}
	}
	return n
}

func (d *doc) content() *xmlnode.Node {
	g, f := d.g, d.folder
	reg := fields.Session()

	keywords := xmlnode.Elem("Keys")
	for _, kw := range f.Field("keyword").List() {
		keywords = keywords.Append(xmlnode.Leaf("Key", kw, xmlnode.Attr{Name: "Name", Value: "Keyword"}))
	}

	c := xmlnode.Elem("Content")
	for _, key := range []string{"genre", "subgenre", "task", "modalities", "topic"} {
		c = c.Append(g.emit(reg.Must(key), f.Field(key))...)
	}

	comm := xmlnode.Elem("CommunicationContext")
	for _, key := range []string{"interactivity", "planningType", "involvement", "socialContext", "eventStructure", "channel"} {
		comm = comm.Append(g.emitOne(reg.Must(key), f.Field(key)))
	}

	c = c.Append(
		comm,
		g.contentLanguages(f.Field("languages"), f.Field("workingLanguages")),
		keywords,
	)
	return c.Append(g.emit(reg.Must("contentDescription"), f.Field("contentDescription"))...)
}

// contentLanguages lists subject languages, then working languages.
func (g *Generator) contentLanguages(subject, working imdix.Value) *xmlnode.Node {
	n := xmlnode.Elem("Languages")
	add := func(v imdix.Value, role string) {
		for _, code := range languageCodes(v) {
			n = n.Append(xmlnode.Elem("Language",
				xmlnode.Leaf("Id", g.languageID(code)),
				xmlnode.Leaf("Name", g.languageName(code)),
				xmlnode.Leaf("Description", role),
			))
		}
	}
	add(subject, "Content Language")
	add(working, "Working Language")
	return n
}

// languageCodes accepts "etr;tpi" as well as "etr: Edolo; tpi: Tok Pisin".
func languageCodes(v imdix.Value) []string {
	var out []string
	for _, item := range v.List() {
		if i := strings.IndexByte(item, ':'); i >= 0 {
			item = item[:i]
		}
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
