package imdix

import (
	"path/filepath"
	"strings"
)

// FolderKind identifies what a Folder represents in the project tree.
type FolderKind int

const (
	KindProject FolderKind = iota
	KindSession
	KindPerson
	KindDocuments
)

func (k FolderKind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindSession:
		return "session"
	case KindPerson:
		return "person"
	case KindDocuments:
		return "documents"
	}
	return "unknown"
}

// Axis is one language-tagged text of a field value. An empty Lang marks a
// value that is not language-specific.
type Axis struct {
	Lang string
	Text string
}

// Value is a possibly multilingual field value.
type Value struct {
	Axes []Axis
}

// Plain builds a single-axis value.
func Plain(text string) Value {
	return Value{Axes: []Axis{{Text: text}}}
}

// Multi builds a value from alternating language tag and text pairs.
func Multi(pairs ...string) Value {
	var v Value
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Axes = append(v.Axes, Axis{Lang: pairs[i], Text: pairs[i+1]})
	}
	return v
}

// Text returns the first non-empty axis, trimmed.
func (v Value) Text() string {
	for _, a := range v.Axes {
		if t := strings.TrimSpace(a.Text); t != "" {
			return t
		}
	}
	return ""
}

// In returns the trimmed text for one language tag, or "" when absent.
func (v Value) In(lang string) string {
	for _, a := range v.Axes {
		if a.Lang == lang {
			return strings.TrimSpace(a.Text)
		}
	}
	return ""
}

// IsEmpty reports whether no axis carries text.
func (v Value) IsEmpty() bool {
	return v.Text() == ""
}

// List splits the first axis on ';' (and ',') into trimmed, non-empty items.
func (v Value) List() []string {
	raw := v.Text()
	if raw == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Contribution links a person to a session (or file) in a role.
type Contribution struct {
	PersonReference string
	Role            string
	Comments        string
}

// SpokenLanguage is one language a person speaks.
type SpokenLanguage struct {
	Code    string
	Primary bool
	Mother  bool
	Father  bool
}

// File is one on-disk file belonging to a folder.
type File struct {
	// Path is the absolute path of the file on disk.
	Path string

	// Size in bytes, as recorded by the project model.
	Size int64

	// Missing marks files referenced by the project but absent on disk.
	Missing bool

	// Tags are free-form classifications; "consent" marks consent artifacts.
	Tags []string

	Fields        map[string]Value
	Contributions []Contribution

	// ExportAs overrides the base name used in the bundle. It is still
	// passed through the archive-name sanitizer.
	ExportAs string
}

// Name returns the base name of the file on disk.
func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// Ext returns the lower-cased extension including the dot.
func (f *File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// HasTag reports whether the file carries the tag (case-insensitive).
func (f *File) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Field returns a field value, or an empty value when unset.
func (f *File) Field(key string) Value {
	return f.Fields[key]
}

// Folder is a project, session, person or document folder with its property bag.
type Folder struct {
	Kind      FolderKind
	ID        string
	Directory string
	Fields    map[string]Value
	Files     []*File

	// Contributions are the session-level contributor entries.
	Contributions []Contribution

	// Languages lists what a person speaks; unused for other kinds.
	Languages []SpokenLanguage
}

// Field returns a field value, or an empty value when unset.
func (f *Folder) Field(key string) Value {
	if f == nil {
		return Value{}
	}
	return f.Fields[key]
}

// Text returns the trimmed text of a field.
func (f *Folder) Text(key string) string {
	return f.Field(key).Text()
}

// AllContributions returns the folder's own contributions followed by those
// of its files, keeping the first entry per (person, role) pair. Entries
// without a person reference are dropped.
func (f *Folder) AllContributions() []Contribution {
	seen := make(map[string]bool)
	var out []Contribution
	add := func(cs []Contribution) {
		for _, c := range cs {
			ref := strings.TrimSpace(c.PersonReference)
			if ref == "" {
				continue
			}
			key := strings.ToLower(ref) + "\x00" + strings.ToLower(strings.TrimSpace(c.Role))
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	add(f.Contributions)
	for _, file := range f.Files {
		add(file.Contributions)
	}
	return out
}

// DisplayName returns the best human-facing name for the folder.
func (f *Folder) DisplayName() string {
	if f.ID != "" {
		return f.ID
	}
	if t := f.Text("title"); t != "" {
		return t
	}
	return filepath.Base(f.Directory)
}

// LanguageLookup resolves language codes for output.
type LanguageLookup interface {
	// Name returns the English name for an ISO 639 code.
	Name(code string) (string, bool)

	// ISO3 normalizes a language tag ("en", "eng", "en-US") to its
	// ISO 639-3 code, returning the input unchanged when unknown.
	ISO3(tag string) string
}

// Project is the read-only root of the model handed to the export engine.
type Project struct {
	Folder

	// DirectoryName is the project folder's own name; it names the second
	// level of the bundle.
	DirectoryName string

	Sessions             []*Folder
	Persons              []*Folder
	OtherDocuments       *Folder
	DescriptionDocuments *Folder

	// MetadataLanguages are the tags used for multilingual fields, default first.
	MetadataLanguages []string

	// VocabularyTranslations maps an English vocabulary term to its
	// localized forms keyed by metadata language tag.
	VocabularyTranslations map[string]map[string]string

	Languages LanguageLookup
}

// FindPerson resolves a contribution's person reference by ID, then by
// full name, case-insensitively.
func (p *Project) FindPerson(ref string) (*Folder, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	for _, person := range p.Persons {
		if strings.EqualFold(person.ID, ref) {
			return person, true
		}
	}
	for _, person := range p.Persons {
		if strings.EqualFold(person.Text("fullName"), ref) || strings.EqualFold(person.Text("name"), ref) {
			return person, true
		}
	}
	return nil, false
}

// DefaultLanguage returns the first metadata language, or "en".
func (p *Project) DefaultLanguage() string {
	if len(p.MetadataLanguages) > 0 {
		return p.MetadataLanguages[0]
	}
	return "en"
}
