package imdi

import (
	"fmt"
	"path"
	"time"

	"github.com/vvka-141/imdix/internal/warnings"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

const (
	imdiNamespace  = "http://www.mpi.nl/IMDI/Schema/IMDI"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	imdiSchemaURL  = "http://www.mpi.nl/IMDI/Schema/IMDI_3.0.xsd"
	originator     = "imdix"
	formatID       = "IMDI 3.03"
	metadataFormat = "2006-01-02"
)

// Options configures a Generator.
type Options struct {
	Mode    imdix.Mode
	Variant imdix.SchemaVariant

	// ReferenceDate is the "today" ages are computed against and the
	// METATRANSCRIPT Date attribute. Zero means time.Now().
	ReferenceDate time.Time

	// Warnings receives advisory messages. Nil discards them.
	Warnings warnings.Sink
}

// Generator produces the documents of one export run.
type Generator struct {
	project *imdix.Project
	opts    Options

	approximateNoticed bool
}

// NewGenerator creates a generator bound to a project.
func NewGenerator(project *imdix.Project, opts Options) *Generator {
	if project == nil {
		panic("imdi.NewGenerator: project cannot be nil")
	}
	if opts.ReferenceDate.IsZero() {
		opts.ReferenceDate = time.Now()
	}
	if opts.Warnings == nil {
		opts.Warnings = warnings.Discard{}
	}
	if opts.Variant.Name == "" {
		opts.Variant = imdix.VariantIMDI
	}
	return &Generator{project: project, opts: opts}
}

// Generate builds the document for a session or document folder. unitDir is
// the folder's directory name inside the bundle; it prefixes resource links
// in bare IMDI mode, where the document sits one level above its files.
func (g *Generator) Generate(folder *imdix.Folder, unitDir string) (string, error) {
	if folder == nil {
		return "", fmt.Errorf("generate: nil folder: %w", imdix.ErrWrongFolderKind)
	}
	switch folder.Kind {
	case imdix.KindSession, imdix.KindDocuments:
	default:
		return "", fmt.Errorf("generate %s folder %q: %w", folder.Kind, folder.DisplayName(), imdix.ErrWrongFolderKind)
	}

	d := &doc{g: g, folder: folder, unitDir: unitDir}
	session := d.session()
	root := g.metatranscript("SESSION", session)

	if g.opts.Mode == imdix.ModeOPEX {
		title := folder.Text("title")
		if title == "" {
			title = folder.DisplayName()
		}
		root = g.opex(root, title, folder.Text("description"), d.manifestFiles(), nil)
	}
	return xmlnode.String(root)
}

// CorpusLink is one child document referenced by the corpus.
type CorpusLink struct {
	Name string
	// Href is the slash-separated path relative to the corpus document.
	Href string
}

// Corpus builds the collection-level document linking every emitted unit in
// the given order.
func (g *Generator) Corpus(links []CorpusLink) (string, error) {
	corpus := g.corpus(links)
	root := g.metatranscript("CORPUS", corpus)

	if g.opts.Mode == imdix.ModeOPEX {
		var folders []string
		for _, l := range links {
			if dir := path.Dir(l.Href); dir != "." {
				folders = append(folders, dir)
			}
		}
		root = g.opex(root, g.project.Text("title"), g.project.Text("projectDescription"), nil, folders)
	}
	return xmlnode.String(root)
}

func (g *Generator) metatranscript(kind string, body *xmlnode.Node) *xmlnode.Node {
	return xmlnode.Elem("METATRANSCRIPT", body).
		WithAttr("xmlns", imdiNamespace).
		WithAttr("xmlns:xsi", xsiNamespace).
		WithAttr("xsi:schemaLocation", imdiNamespace+" "+imdiSchemaURL).
		WithAttr("Date", g.opts.ReferenceDate.Format(metadataFormat)).
		WithAttr("FormatId", formatID).
		WithAttr("Originator", originator).
		WithAttr("Type", kind).
		WithAttr("Version", "0")
}

func (g *Generator) warn(format string, args ...any) {
	g.opts.Warnings.Warn(fmt.Sprintf(format, args...))
}

// doc carries the per-document state of one Generate call.
type doc struct {
	g       *Generator
	folder  *imdix.Folder
	unitDir string
}

func (d *doc) project() *imdix.Project { return d.g.project }
