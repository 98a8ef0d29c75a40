package imdi

import (
	"strings"

	"github.com/vvka-141/imdix/internal/fields"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// emit renders one field according to its policy. The result is empty only
// for optional fields with no value.
func (g *Generator) emit(def fields.Definition, v imdix.Value) []*xmlnode.Node {
	switch def.Policy() {
	case fields.Vocabulary:
		return g.vocabulary(def, v)
	case fields.RequiredWithDefault:
		if v.IsEmpty() {
			return []*xmlnode.Node{xmlnode.Leaf(def.Element, def.Default)}
		}
	case fields.Required:
		if v.IsEmpty() {
			return []*xmlnode.Node{xmlnode.Leaf(def.Element, "")}
		}
	case fields.Optional:
		if v.IsEmpty() {
			return nil
		}
	}
	return g.texts(def, v)
}

// emitOne is emit for elements that occur at most once.
func (g *Generator) emitOne(def fields.Definition, v imdix.Value) *xmlnode.Node {
	nodes := g.emit(def, v)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// fanOut reports whether def gets one element per language axis.
func (g *Generator) fanOut(def fields.Definition) bool {
	return def.Multilingual && (def.Repeatable || g.opts.Variant.RepeatMultilingual)
}

func (g *Generator) texts(def fields.Definition, v imdix.Value) []*xmlnode.Node {
	axes := g.axes(v)
	if len(axes) == 0 {
		return nil
	}
	if !g.fanOut(def) {
		return []*xmlnode.Node{xmlnode.Leaf(def.Element, axes[0].Text)}
	}
	out := make([]*xmlnode.Node, 0, len(axes))
	for _, a := range axes {
		n := xmlnode.Leaf(def.Element, a.Text)
		if a.Lang != "" {
			n = n.WithAttr("LanguageId", g.languageID(a.Lang))
		}
		out = append(out, n)
	}
	return out
}

func (g *Generator) vocabulary(def fields.Definition, v imdix.Value) []*xmlnode.Node {
	linked := func(n *xmlnode.Node) *xmlnode.Node {
		return n.WithAttr("Link", def.Vocabulary.URL).WithAttr("Type", string(def.Vocabulary.Type))
	}

	axes := g.axes(v)
	if len(axes) == 0 {
		if !def.Required {
			return nil
		}
		return []*xmlnode.Node{linked(xmlnode.Leaf(def.Element, def.Default))}
	}

	term := axes[0].Text
	if !g.fanOut(def) || len(g.project.MetadataLanguages) < 2 {
		return []*xmlnode.Node{linked(xmlnode.Leaf(def.Element, term))}
	}

	// Stored terms are the English vocabulary entries; other metadata
	// languages get the project's translation.
	english := g.iso3("en")
	out := []*xmlnode.Node{linked(xmlnode.Leaf(def.Element, term).WithAttr("LanguageId", g.languageID("en")))}
	for _, lang := range g.project.MetadataLanguages {
		if g.iso3(lang) == english {
			continue
		}
		translated, ok := g.translate(term, lang)
		if !ok {
			g.warn("No %s translation for the vocabulary term %q (%s)", lang, term, def.Element)
			continue
		}
		out = append(out, linked(xmlnode.Leaf(def.Element, translated).WithAttr("LanguageId", g.languageID(lang))))
	}
	return out
}

func (g *Generator) translate(term, lang string) (string, bool) {
	for english, forms := range g.project.VocabularyTranslations {
		if !strings.EqualFold(english, term) {
			continue
		}
		if t := strings.TrimSpace(forms[lang]); t != "" {
			return t, true
		}
	}
	return "", false
}

// axes returns the non-empty axes of v, trimmed, ordered by the project's
// metadata languages. Axes in other languages keep their stored order after
// those, and an unlabelled axis counts as the default language.
func (g *Generator) axes(v imdix.Value) []imdix.Axis {
	out := make([]imdix.Axis, 0, len(v.Axes))
	used := make([]bool, len(v.Axes))
	take := func(i int) {
		used[i] = true
		if t := strings.TrimSpace(v.Axes[i].Text); t != "" {
			out = append(out, imdix.Axis{Lang: v.Axes[i].Lang, Text: t})
		}
	}

	for li, lang := range g.project.MetadataLanguages {
		for i, a := range v.Axes {
			if used[i] {
				continue
			}
			if a.Lang == lang || (li == 0 && a.Lang == "") {
				take(i)
			}
		}
	}
	for i := range v.Axes {
		if !used[i] {
			take(i)
		}
	}
	return out
}

func (g *Generator) iso3(tag string) string {
	if g.project.Languages == nil {
		return tag
	}
	return g.project.Languages.ISO3(tag)
}

func (g *Generator) languageID(tag string) string {
	return "ISO639-3:" + g.iso3(tag)
}

// languageName resolves a code to its name, falling back to the code itself.
func (g *Generator) languageName(code string) string {
	if g.project.Languages != nil {
		if name, ok := g.project.Languages.Name(code); ok && name != "" {
			return name
		}
	}
	return code
}
