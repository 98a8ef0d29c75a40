package bundle

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// unitNamespace scopes the UUIDv5 unit IDs.
var unitNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/vvka-141/imdix/unit"))

// layout computes where documents and files go inside the output root:
//
//	root/<project>.imdi                  corpus, bare IMDI
//	root/<project>/<unit>.imdi           unit document, bare IMDI
//	root/<project>/<project>.opex        corpus, OPEX
//	root/<project>/<unit>/<unit>.opex    unit document, OPEX
//	root/<project>/<unit>/<file>         copied files
type layout struct {
	root        string
	secondLevel string
	mode        imdix.Mode
}

func newLayout(root, projectDir string, mode imdix.Mode) layout {
	return layout{root: root, secondLevel: filepath.Join(root, projectDir), mode: mode}
}

func (l layout) unitDirectory(name string) string {
	return filepath.Join(l.secondLevel, name)
}

func (l layout) unitDocument(name string) string {
	if l.mode == imdix.ModeOPEX {
		return filepath.Join(l.unitDirectory(name), name+l.mode.Extension())
	}
	return filepath.Join(l.secondLevel, name+l.mode.Extension())
}

func (l layout) corpusDocument() string {
	name := filepath.Base(l.secondLevel)
	if l.mode == imdix.ModeOPEX {
		return filepath.Join(l.secondLevel, name+l.mode.Extension())
	}
	return filepath.Join(l.root, name+l.mode.Extension())
}

// corpusHref is the slash-separated path of a unit document relative to
// the corpus document.
func (l layout) corpusHref(documentPath string) string {
	rel, err := filepath.Rel(filepath.Dir(l.corpusDocument()), documentPath)
	if err != nil {
		return filepath.ToSlash(documentPath)
	}
	return filepath.ToSlash(rel)
}

// unitID is stable across runs for the same unit path.
func (l layout) unitID(name string) string {
	rel, err := filepath.Rel(l.root, l.unitDirectory(name))
	if err != nil {
		rel = name
	}
	return uuid.NewSHA1(unitNamespace, []byte(filepath.ToSlash(rel))).String()
}
