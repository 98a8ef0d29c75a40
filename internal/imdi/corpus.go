package imdi

import (
	"github.com/vvka-141/imdix/internal/fields"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func (g *Generator) corpus(links []CorpusLink) *xmlnode.Node {
	p := g.project
	reg := fields.Project()

	name := p.Text("id")
	if name == "" {
		name = p.DirectoryName
	}
	title := p.Field("title")
	if title.IsEmpty() {
		title = imdix.Plain(name)
	}

	c := xmlnode.Elem("Corpus",
		xmlnode.Leaf("Name", name),
		g.emitOne(reg.Must("title"), title),
	)
	c = c.Append(g.emit(reg.Must("projectDescription"), p.Field("projectDescription"))...)
	c = c.Append(xmlnode.Elem("MDGroup",
		g.projectLocation(),
		g.projectGroup(),
		g.keys(reg, p.Fields),
		g.corpusContent(),
		g.corpusActors(),
	))
	for _, l := range links {
		c = c.Append(xmlnode.Leaf("CorpusLink", l.Href, xmlnode.Attr{Name: "Name", Value: l.Name}))
	}
	return c
}

func (g *Generator) projectLocation() *xmlnode.Node {
	p := g.project
	reg := fields.Project()
	return xmlnode.Elem("Location",
		g.emitOne(reg.Must("continent"), p.Field("continent")),
		g.emitOne(reg.Must("country"), p.Field("country")),
		g.emitOne(reg.Must("region"), p.Field("region")),
		g.emitOne(reg.Must("location"), p.Field("location")),
	)
}

// corpusContent is mostly placeholders; only genre and languages are known
// at collection level.
func (g *Generator) corpusContent() *xmlnode.Node {
	p := g.project
	session := fields.Session()
	none := imdix.Value{}

	c := xmlnode.Elem("Content",
		g.emitOne(fields.Project().Must("contentType"), p.Field("contentType")),
	)
	for _, key := range []string{"subgenre", "task", "modalities", "topic"} {
		c = c.Append(g.emitOne(session.Must(key), none))
	}
	comm := xmlnode.Elem("CommunicationContext")
	for _, key := range []string{"interactivity", "planningType", "involvement", "socialContext", "eventStructure", "channel"} {
		comm = comm.Append(g.emitOne(session.Must(key), none))
	}
	return c.Append(
		comm,
		g.contentLanguages(p.Field("languages"), p.Field("workingLanguages")),
		xmlnode.Elem("Keys"),
	)
}

// corpusActors fans the comma-separated depositor and steward fields out
// into one actor per name.
func (g *Generator) corpusActors() *xmlnode.Node {
	n := xmlnode.Elem("Actors")
	seen := make(map[imdix.Contribution]bool)
	for _, r := range []struct{ key, role string }{
		{"depositor", "Depositor"},
		{"collectionSteward", "Collection Steward"},
	} {
		for _, who := range g.project.Field(r.key).List() {
			c := imdix.Contribution{PersonReference: who, Role: r.role}
			if seen[c] {
				continue
			}
			seen[c] = true
			n = n.Append(g.actorFor(c, "")...)
		}
	}
	return n
}
