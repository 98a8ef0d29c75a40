package project

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// reservedKeys are structural keys of a sidecar, not fields.
var reservedKeys = map[string]bool{
	"contributions":          true,
	"tags":                   true,
	"exportAs":               true,
	"metadataLanguages":      true,
	"vocabularyTranslations": true,
	"languageNames":          true,
}

type contributionYAML struct {
	Person   string `yaml:"person"`
	Role     string `yaml:"role"`
	Comments string `yaml:"comments"`
}

type spokenLanguageYAML struct {
	Code    string `yaml:"code"`
	Primary bool   `yaml:"primary"`
	Mother  bool   `yaml:"mother"`
	Father  bool   `yaml:"father"`
}

// sidecar is the structural part of any sidecar file.
type sidecar struct {
	Contributions          []contributionYAML           `yaml:"contributions"`
	Languages              []spokenLanguageYAML         `yaml:"-"`
	Tags                   []string                     `yaml:"tags"`
	ExportAs               string                       `yaml:"exportAs"`
	MetadataLanguages      []string                     `yaml:"metadataLanguages"`
	VocabularyTranslations map[string]map[string]string `yaml:"vocabularyTranslations"`
	LanguageNames          map[string]string            `yaml:"languageNames"`

	Fields map[string]imdix.Value `yaml:"-"`
}

// parseSidecar decodes a sidecar document. An empty document yields an
// empty sidecar.
func parseSidecar(name string, data []byte) (*sidecar, error) {
	s := &sidecar{Fields: make(map[string]imdix.Value)}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(doc.Content) == 0 {
		return s, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s:%d: expected a mapping of fields", name, root.Line)
	}
	if err := root.Decode(s); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if reservedKeys[key.Value] {
			continue
		}
		// A person's languages are a list of entries; elsewhere the key is
		// an ordinary field.
		if key.Value == "languages" && isEntryList(value) {
			if err := value.Decode(&s.Languages); err != nil {
				return nil, fmt.Errorf("%s:%d: languages: %w", name, value.Line, err)
			}
			continue
		}
		v, err := fieldValue(value)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: field %q: %w", name, value.Line, key.Value, err)
		}
		s.Fields[key.Value] = v
	}
	return s, nil
}

// fieldValue converts a scalar, a list or a language map into a Value.
func fieldValue(n *yaml.Node) (imdix.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return imdix.Value{}, nil
		}
		return imdix.Plain(n.Value), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return imdix.Value{}, fmt.Errorf("list items must be text")
			}
			items = append(items, item.Value)
		}
		return imdix.Plain(strings.Join(items, ";")), nil
	case yaml.MappingNode:
		var v imdix.Value
		for i := 0; i+1 < len(n.Content); i += 2 {
			lang, text := n.Content[i], n.Content[i+1]
			if text.Kind != yaml.ScalarNode {
				return imdix.Value{}, fmt.Errorf("translation %q must be text", lang.Value)
			}
			v.Axes = append(v.Axes, imdix.Axis{Lang: lang.Value, Text: text.Value})
		}
		return v, nil
	case yaml.AliasNode:
		return fieldValue(n.Alias)
	}
	return imdix.Value{}, fmt.Errorf("unsupported value")
}

func isEntryList(n *yaml.Node) bool {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return false
	}
	for _, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return false
		}
	}
	return true
}

func (s *sidecar) contributions() []imdix.Contribution {
	out := make([]imdix.Contribution, 0, len(s.Contributions))
	for _, c := range s.Contributions {
		out = append(out, imdix.Contribution{
			PersonReference: strings.TrimSpace(c.Person),
			Role:            strings.TrimSpace(c.Role),
			Comments:        strings.TrimSpace(c.Comments),
		})
	}
	return out
}

func (s *sidecar) spokenLanguages() []imdix.SpokenLanguage {
	out := make([]imdix.SpokenLanguage, 0, len(s.Languages))
	for _, l := range s.Languages {
		out = append(out, imdix.SpokenLanguage{Code: l.Code, Primary: l.Primary, Mother: l.Mother, Father: l.Father})
	}
	return out
}
