package imdi

import (
	"fmt"
	"strings"

	"github.com/vvka-141/imdix/internal/fields"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// actors emits one Actor per unique (person, role) pair across the
// session's own contributions and those of its files, in first-seen order.
func (d *doc) actors() *xmlnode.Node {
	n := xmlnode.Elem("Actors")
	for _, c := range d.folder.AllContributions() {
		n = n.Append(d.g.actorFor(c, d.folder.DisplayName())...)
	}
	return n
}

// actorFor resolves a contribution. Unknown persons still produce a minimal
// actor, preceded by a comment, so no contributor is silently dropped.
func (g *Generator) actorFor(c imdix.Contribution, where string) []*xmlnode.Node {
	ref := strings.TrimSpace(c.PersonReference)
	person, ok := g.project.FindPerson(ref)
	if ok {
		return []*xmlnode.Node{g.actor(person, c)}
	}

	if where != "" {
		g.warn("%s: contributor %q does not match any person in the project", where, ref)
	}
	placeholder := &imdix.Folder{
		Kind:   imdix.KindPerson,
		ID:     ref,
		Fields: map[string]imdix.Value{"name": imdix.Plain(ref)},
	}
	return []*xmlnode.Node{
		xmlnode.Comment(fmt.Sprintf("Could not find a person with name %q", ref)),
		g.actor(placeholder, c),
	}
}

func (g *Generator) actor(person *imdix.Folder, c imdix.Contribution) *xmlnode.Node {
	reg := fields.Person()

	name := person.Field("name")
	if name.IsEmpty() {
		name = imdix.Plain(person.ID)
	}
	fullName := person.Field("fullName")
	if fullName.IsEmpty() {
		fullName = name
	}

	role := c.Role
	if strings.TrimSpace(role) == "" {
		role = imdix.Unspecified
	}

	birth := g.birth(person)

	a := xmlnode.Elem("Actor",
		vocabularyLeaf("Role", role, fields.ActorRole),
		g.emitOne(reg.Must("name"), name),
		g.emitOne(reg.Must("fullName"), fullName),
		g.emitOne(reg.Must("code"), person.Field("code")),
		g.emitOne(reg.Must("familySocialRole"), person.Field("familySocialRole")),
		g.actorLanguages(person),
		g.emitOne(reg.Must("ethnicGroup"), person.Field("ethnicGroup")),
		xmlnode.Leaf("Age", birth.age),
		xmlnode.Leaf("BirthDate", birth.date),
		g.emitOne(reg.Must("gender"), imdix.Plain(gender(person.Text("gender")))),
		g.emitOne(reg.Must("education"), person.Field("education")),
		g.emitOne(reg.Must("anonymized"), person.Field("anonymized")),
		g.contact(person),
		g.keys(reg, person.Fields),
	)
	a = a.Append(g.emit(reg.Must("description"), person.Field("description"))...)
	if comment := strings.TrimSpace(c.Comments); comment != "" {
		a = a.Append(xmlnode.Leaf("Description", comment))
	}
	return a
}

func (g *Generator) contact(person *imdix.Folder) *xmlnode.Node {
	address := g.emitOne(fields.Person().Must("howToContact"), person.Field("howToContact"))
	if address == nil {
		return nil
	}
	return xmlnode.Elem("Contact", address)
}

// actorLanguages emits one Language per spoken language, noting when a
// parent also speaks it.
func (g *Generator) actorLanguages(person *imdix.Folder) *xmlnode.Node {
	n := xmlnode.Elem("Languages")
	for _, l := range person.Languages {
		code := strings.TrimSpace(l.Code)
		if code == "" {
			continue
		}
		lang := xmlnode.Elem("Language",
			xmlnode.Leaf("Id", g.languageID(code)),
			xmlnode.Leaf("Name", g.languageName(code)),
			vocabularyLeaf("MotherTongue", imdix.Unspecified, fields.Boolean),
			vocabularyLeaf("PrimaryLanguage", fmt.Sprint(l.Primary), fields.Boolean),
		)
		if note := parentNote(l); note != "" {
			lang = lang.Append(xmlnode.Leaf("Description", note))
		}
		n = n.Append(lang)
	}
	return n
}

func parentNote(l imdix.SpokenLanguage) string {
	switch {
	case l.Mother && l.Father:
		return "Also spoken by mother and father."
	case l.Mother:
		return "Also spoken by mother."
	case l.Father:
		return "Also spoken by father."
	}
	return ""
}

// gender maps free text onto the closed Actor-Sex vocabulary.
func gender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return "Male"
	case "female":
		return "Female"
	case "unknown":
		return "Unknown"
	}
	return imdix.Unspecified
}
