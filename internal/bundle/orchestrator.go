package bundle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vvka-141/imdix/internal/archivename"
	"github.com/vvka-141/imdix/internal/imdi"
	"github.com/vvka-141/imdix/internal/schema"
	"github.com/vvka-141/imdix/internal/warnings"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// ErrFinished is returned by Next after the corpus step.
var ErrFinished = errors.New("bundle sequence finished")

// DocumentValidator checks a generated document. *schema.Validator satisfies it.
type DocumentValidator interface {
	Validate(ctx context.Context, document string) (schema.Result, error)
}

// DebugWriter saves rejected documents. imdix.PrivilegedIO satisfies it.
type DebugWriter interface {
	EnsureDirectory(path string) error
	WriteFile(path string, text string) error
}

// Options configures an Orchestrator.
type Options struct {
	Mode    imdix.Mode
	Variant imdix.SchemaVariant

	// OutputRoot is the directory the bundle is written into.
	OutputRoot string

	// CopyFiles enables the copy plan. When false every unit's Copies is empty.
	CopyFiles bool

	// Filter selects the sessions to export. Nil exports all.
	Filter func(*imdix.Folder) bool

	// DebugDirectory receives documents that fail validation, written
	// through Debug. Either being empty disables saving.
	DebugDirectory string
	Debug          DebugWriter

	Warnings      warnings.Sink
	ReferenceDate time.Time
}

// Step is one element of the sequence. Exactly one of Unit and Corpus is
// set; Corpus marks the last step.
type Step struct {
	Unit   *imdix.ExportUnit
	Corpus *imdix.CorpusUnit
}

// Last reports whether this is the corpus step.
func (s Step) Last() bool {
	return s.Corpus != nil
}

type stage int

const (
	stageOtherDocuments stage = iota
	stageDescriptionDocuments
	stageConsent
	stageSessions
	stageCorpus
	stageFinished
)

// Orchestrator yields the units of one export run.
// Thread-Safety: NOT safe for concurrent use. Create one per run.
type Orchestrator struct {
	project   *imdix.Project
	generator *imdi.Generator
	validator DocumentValidator
	opts      Options
	layout    layout

	sessions []*imdix.Folder
	stage    stage
	next     int
	links    []imdi.CorpusLink

	// usedNames holds the lower-cased unit names handed out so far.
	usedNames map[string]bool
}

// New creates an orchestrator for project.
func New(project *imdix.Project, validator DocumentValidator, opts Options) *Orchestrator {
	if project == nil {
		panic("bundle.New: project cannot be nil")
	}
	if validator == nil {
		panic("bundle.New: validator cannot be nil")
	}
	if opts.Warnings == nil {
		opts.Warnings = warnings.Discard{}
	}

	var sessions []*imdix.Folder
	for _, s := range project.Sessions {
		if opts.Filter == nil || opts.Filter(s) {
			sessions = append(sessions, s)
		}
	}

	return &Orchestrator{
		project: project,
		generator: imdi.NewGenerator(project, imdi.Options{
			Mode:          opts.Mode,
			Variant:       opts.Variant,
			ReferenceDate: opts.ReferenceDate,
			Warnings:      opts.Warnings,
		}),
		validator: validator,
		opts:      opts,
		layout:    newLayout(opts.OutputRoot, archivename.Sanitize(project.DirectoryName), opts.Mode),
		sessions:  sessions,
		usedNames: make(map[string]bool),
	}
}

// JobInfo sizes the progress bar: the selected sessions plus the fixed
// document and consent folders.
func (o *Orchestrator) JobInfo() imdix.JobInfo {
	return imdix.JobInfo{
		TotalFolders:         len(o.sessions) + imdix.FixedFolderCount,
		RootDirectory:        o.opts.OutputRoot,
		SecondLevelDirectory: filepath.Base(o.layout.secondLevel),
	}
}

// Next advances the sequence by one unit. After the corpus step it returns
// ErrFinished. Any other error ends the sequence.
func (o *Orchestrator) Next(ctx context.Context) (Step, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Step{}, err
		}

		switch o.stage {
		case stageOtherDocuments:
			o.stage = stageDescriptionDocuments
			if f := o.project.OtherDocuments; hasExportableFiles(f) {
				return o.unit(ctx, f, imdix.OtherDocumentsFolderName)
			}

		case stageDescriptionDocuments:
			o.stage = stageConsent
			if f := o.project.DescriptionDocuments; hasExportableFiles(f) {
				return o.unit(ctx, f, imdix.DescriptionDocumentsFolderName)
			}

		case stageConsent:
			o.stage = stageSessions
			if f := consentFolder(o.project, o.sessions); f != nil {
				return o.unit(ctx, f, imdix.ConsentFolderName)
			}

		case stageSessions:
			if o.next >= len(o.sessions) {
				o.stage = stageCorpus
				continue
			}
			s := o.sessions[o.next]
			o.next++
			return o.unit(ctx, s, o.claimName(s))

		case stageCorpus:
			o.stage = stageFinished
			return o.corpus(ctx)

		default:
			return Step{}, ErrFinished
		}
	}
}

// Links returns the corpus links collected so far, in emission order.
func (o *Orchestrator) Links() []imdi.CorpusLink {
	return append([]imdi.CorpusLink(nil), o.links...)
}

// claimName returns the sanitized unit name for a session, suffixed with
// _2, _3, ... when an earlier unit already uses it. Names are compared
// case-insensitively so the layout also holds on case-insensitive disks.
func (o *Orchestrator) claimName(s *imdix.Folder) string {
	base := archivename.Sanitize(s.ID)
	name := base
	for i := 2; o.usedNames[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	if name != base {
		o.opts.Warnings.Warn(fmt.Sprintf("Session %q exports as %q because %q is already used by another folder", s.ID, name, base))
	}
	return name
}

func (o *Orchestrator) unit(ctx context.Context, folder *imdix.Folder, name string) (Step, error) {
	o.usedNames[strings.ToLower(name)] = true
	document, err := o.generator.Generate(folder, name)
	if err != nil {
		return Step{}, fmt.Errorf("generate %s: %w", folder.DisplayName(), err)
	}
	if err := o.validate(ctx, folder.DisplayName(), name, document); err != nil {
		return Step{}, err
	}

	docPath := o.layout.unitDocument(name)
	unitDir := o.layout.unitDirectory(name)
	copies := o.copyPlan(folder, unitDir)

	dirs := []string{o.layout.secondLevel}
	if o.opts.Mode == imdix.ModeOPEX || len(copies) > 0 {
		dirs = append(dirs, unitDir)
	}

	o.links = append(o.links, imdi.CorpusLink{Name: name, Href: o.layout.corpusHref(docPath)})

	return Step{Unit: &imdix.ExportUnit{
		ID:                  o.layout.unitID(name),
		DisplayName:         folder.DisplayName(),
		Document:            document,
		DocumentPath:        docPath,
		DirectoriesToCreate: dirs,
		Copies:              copies,
	}}, nil
}

func (o *Orchestrator) corpus(ctx context.Context) (Step, error) {
	name := o.project.DisplayName()
	document, err := o.generator.Corpus(o.links)
	if err != nil {
		return Step{}, fmt.Errorf("generate corpus: %w", err)
	}
	if err := o.validate(ctx, name, filepath.Base(o.layout.secondLevel), document); err != nil {
		return Step{}, err
	}
	return Step{Corpus: &imdix.CorpusUnit{
		DisplayName:  name,
		Document:     document,
		DocumentPath: o.layout.corpusDocument(),
	}}, nil
}

// copyPlan maps every eligible file present on disk to its sanitized
// destination in unitDir.
func (o *Orchestrator) copyPlan(folder *imdix.Folder, unitDir string) []imdix.FileCopyRequest {
	if !o.opts.CopyFiles {
		return nil
	}
	var copies []imdix.FileCopyRequest
	for _, f := range folder.Files {
		if !imdi.Eligible(f) || f.Missing {
			continue
		}
		copies = append(copies, imdix.FileCopyRequest{
			Source:      f.Path,
			Destination: filepath.Join(unitDir, archivename.ExportName(f)),
			Size:        f.Size,
		})
	}
	return copies
}

func (o *Orchestrator) validate(ctx context.Context, displayName, fileName, document string) error {
	result, err := o.validator.Validate(ctx, document)
	if err != nil {
		return fmt.Errorf("validate %s: %w", displayName, err)
	}
	if result.Valid {
		return nil
	}

	verr := schema.NewValidationError(displayName, document, result)
	if o.opts.DebugDirectory != "" && o.opts.Debug != nil {
		saved := filepath.Join(o.opts.DebugDirectory, fileName+o.opts.Mode.Extension())
		if o.opts.Debug.EnsureDirectory(o.opts.DebugDirectory) == nil && o.opts.Debug.WriteFile(saved, document) == nil {
			verr.SavedPath = saved
		}
	}
	return verr
}

func hasExportableFiles(f *imdix.Folder) bool {
	if f == nil {
		return false
	}
	for _, file := range f.Files {
		if imdi.Eligible(file) {
			return true
		}
	}
	return false
}
