package fields

import (
	"fmt"
	"sort"
	"strings"
)

// Policy controls whether and how an element is emitted.
type Policy int

const (
	Optional Policy = iota
	Required
	RequiredWithDefault
	Vocabulary
)

func (p Policy) String() string {
	switch p {
	case Required:
		return "required"
	case RequiredWithDefault:
		return "required-with-default"
	case Vocabulary:
		return "vocabulary"
	}
	return "optional"
}

// VocabularyType is the IMDI classification written in the Type attribute.
type VocabularyType string

const (
	OpenVocabulary       VocabularyType = "OpenVocabulary"
	ClosedVocabulary     VocabularyType = "ClosedVocabulary"
	OpenVocabularyList   VocabularyType = "OpenVocabularyList"
	ClosedVocabularyList VocabularyType = "ClosedVocabularyList"
)

// Vocab identifies a controlled vocabulary.
type Vocab struct {
	URL  string
	Type VocabularyType
}

// Definition describes one property with a dedicated schema slot.
type Definition struct {
	Key     string
	Element string

	Required bool
	Default  string

	Vocabulary *Vocab

	// Multilingual fields may carry one text per metadata language.
	Multilingual bool

	// Repeatable elements accept one occurrence per language with a
	// LanguageId attribute in every schema variant.
	Repeatable bool

	// Migrated fields were superseded by a newer property and are never exported.
	Migrated bool
}

// Policy derives the emission policy from the definition.
func (d Definition) Policy() Policy {
	switch {
	case d.Vocabulary != nil:
		return Vocabulary
	case d.Required && d.Default != "":
		return RequiredWithDefault
	case d.Required:
		return Required
	}
	return Optional
}

// Registry is an immutable set of definitions for one folder or file kind.
type Registry struct {
	name string
	defs map[string]Definition
}

// NewRegistry builds a registry. Duplicate keys are a programming error.
func NewRegistry(name string, defs ...Definition) *Registry {
	r := &Registry{name: name, defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := r.defs[d.Key]; dup {
			panic(fmt.Sprintf("fields: duplicate definition %q in %s registry", d.Key, name))
		}
		r.defs[d.Key] = d
	}
	return r
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	d, ok := r.defs[key]
	return d, ok
}

// Must returns the definition for key and panics when it is absent.
// Generators use it for keys they reference by name.
func (r *Registry) Must(key string) Definition {
	d, ok := r.defs[key]
	if !ok {
		panic(fmt.Sprintf("fields: %s registry has no definition for %q", r.name, key))
	}
	return d
}

// IsCustom reports whether key should be exported in a Keys group: it has no
// dedicated slot, is not blacklisted and is not migrated.
func (r *Registry) IsCustom(key string) bool {
	if blacklisted(key) {
		return false
	}
	_, slotted := r.defs[key]
	return !slotted
}

// CustomKeys filters and sorts the keys of a property bag down to the
// custom ones.
func (r *Registry) CustomKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if r.IsCustom(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// blacklist holds properties that never appear in Keys even though they have
// no slot: they describe the file system entry or are internal notes.
var blacklist = map[string]bool{
	"size":          true,
	"type":          true,
	"filename":      true,
	"notes":         true,
	"modifieddate":  true,
	"status":        true,
	"tags":          true,
	"contributions": true,
}

func blacklisted(key string) bool {
	return blacklist[strings.ToLower(key)]
}
