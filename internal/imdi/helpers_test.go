package imdi

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

var referenceDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSink) Warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *recordingSink) containing(substr string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.messages {
		if strings.Contains(m, substr) {
			out = append(out, m)
		}
	}
	return out
}

type fakeLanguages map[string]string

func (f fakeLanguages) Name(code string) (string, bool) {
	name, ok := f[code]
	return name, ok
}

func (f fakeLanguages) ISO3(tag string) string {
	switch tag {
	case "en":
		return "eng"
	case "es":
		return "spa"
	case "fr":
		return "fra"
	}
	return tag
}

func newProject() *imdix.Project {
	return &imdix.Project{
		Folder: imdix.Folder{
			Kind: imdix.KindProject,
			ID:   "Edolo",
			Fields: map[string]imdix.Value{
				"title":     imdix.Plain("Edolo Documentation"),
				"continent": imdix.Plain("Oceania"),
				"country":   imdix.Plain("Papua New Guinea"),
			},
		},
		DirectoryName:     "Edolo",
		MetadataLanguages: []string{"en"},
		Languages:         fakeLanguages{"etr": "Edolo", "tpi": "Tok Pisin", "eng": "English"},
	}
}

func newSession(id string, files ...*imdix.File) *imdix.Folder {
	return &imdix.Folder{
		Kind:   imdix.KindSession,
		ID:     id,
		Fields: map[string]imdix.Value{"title": imdix.Plain("Session " + id)},
		Files:  files,
	}
}

func newGenerator(p *imdix.Project, mode imdix.Mode, variant imdix.SchemaVariant) (*Generator, *recordingSink) {
	sink := &recordingSink{}
	return NewGenerator(p, Options{Mode: mode, Variant: variant, ReferenceDate: referenceDate, Warnings: sink}), sink
}

func generate(t *testing.T, g *Generator, folder *imdix.Folder) *xmlnode.Node {
	t.Helper()
	text, err := g.Generate(folder, folder.ID)
	require.NoError(t, err)
	root, err := xmlnode.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return root
}

func names(nodes []*xmlnode.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name())
	}
	return out
}

func texts(nodes []*xmlnode.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text())
	}
	return out
}

func attr(t *testing.T, n *xmlnode.Node, name string) string {
	t.Helper()
	require.NotNil(t, n)
	v, ok := n.Attr(name)
	require.True(t, ok, "attribute %s missing on <%s>", name, n.Name())
	return v
}
