package imdix

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the document flavour written for every folder.
type Mode int

const (
	// ModeIMDI writes bare IMDI 3.0 documents with the .imdi extension.
	ModeIMDI Mode = iota
	// ModeOPEX wraps each IMDI document in an OPEX envelope (.opex).
	ModeOPEX
)

func (m Mode) String() string {
	if m == ModeOPEX {
		return "opex"
	}
	return "imdi"
}

// Extension returns the document file extension for the mode.
func (m Mode) Extension() string {
	if m == ModeOPEX {
		return ExtensionOPEX
	}
	return ExtensionIMDI
}

// ParseMode converts "imdi" or "opex" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "imdi":
		return ModeIMDI, nil
	case "opex":
		return ModeOPEX, nil
	}
	return ModeIMDI, fmt.Errorf("unknown mode %q (expected imdi or opex): %w", s, ErrInvalidConfig)
}

// SchemaVariant names the schema set an archive validates against and the
// generation rules that follow from it.
type SchemaVariant struct {
	Name       string
	IMDISchema string
	OPEXSchema string

	// RepeatMultilingual allows one element per metadata language for
	// elements the base schema only permits once.
	RepeatMultilingual bool
}

var (
	// VariantIMDI is the stock IMDI 3.0 schema.
	VariantIMDI = SchemaVariant{Name: "imdi", IMDISchema: SchemaIMDI, OPEXSchema: SchemaOPEX}

	// VariantELAR is the relaxed archive schema that permits repeated
	// multilingual elements.
	VariantELAR = SchemaVariant{Name: "elar", IMDISchema: SchemaIMDIELAR, OPEXSchema: SchemaOPEX, RepeatMultilingual: true}
)

// LookupVariant returns the schema variant with the given name.
// An empty name selects VariantIMDI.
func LookupVariant(name string) (SchemaVariant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", VariantIMDI.Name:
		return VariantIMDI, nil
	case VariantELAR.Name:
		return VariantELAR, nil
	}
	return SchemaVariant{}, fmt.Errorf("unknown archive schema variant %q: %w", name, ErrInvalidConfig)
}

// ExportConfig contains all parameters needed for one export run.
type ExportConfig struct {
	// ProjectPath is the project folder being exported.
	ProjectPath string

	// OutputRoot is the directory the bundle is written into. It is cleared
	// at the start of the run and removed again if the run fails or is cancelled.
	OutputRoot string

	// Mode selects bare IMDI or OPEX-wrapped documents.
	Mode Mode

	// Variant selects the archive schema set.
	Variant SchemaVariant

	// CopyFiles enables copying source files into the bundle.
	CopyFiles bool

	// VerifyCopies compares SHA-256 digests of source and destination after each copy.
	VerifyCopies bool

	// CopyConcurrency bounds simultaneous copy processes.
	CopyConcurrency int

	// Sessions restricts the export to the named session IDs. Empty exports all.
	Sessions []string

	// DebugDirectory receives documents that fail validation. Empty disables saving.
	DebugDirectory string

	// LogPath receives the drained warnings of the run. Empty disables the log file.
	LogPath string

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the ExportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ExportConfig) Validate() error {
	var errs []error

	if c.ProjectPath == "" {
		errs = append(errs, fmt.Errorf("ProjectPath is required: %w", ErrInvalidConfig))
	}

	if c.OutputRoot == "" {
		errs = append(errs, fmt.Errorf("OutputRoot is required: %w", ErrInvalidConfig))
	}

	if c.Variant.Name == "" {
		errs = append(errs, fmt.Errorf("schema variant is required: %w", ErrInvalidConfig))
	}

	if c.CopyConcurrency < 0 {
		errs = append(errs, fmt.Errorf("copy concurrency cannot be negative: %w", ErrInvalidConfig))
	}

	if c.VerifyCopies && !c.CopyFiles {
		errs = append(errs, fmt.Errorf("verify requires copying to be enabled: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// SessionFilter returns the caller-supplied session predicate for the config.
func (c *ExportConfig) SessionFilter() func(*Folder) bool {
	if len(c.Sessions) == 0 {
		return func(*Folder) bool { return true }
	}
	wanted := make(map[string]bool, len(c.Sessions))
	for _, id := range c.Sessions {
		wanted[id] = true
	}
	return func(f *Folder) bool { return wanted[f.ID] }
}

// Phase is the coarse stage reported on the progress channel.
type Phase string

const (
	PhasePreparing Phase = "preparing"
	PhaseSessions  Phase = "sessions"
	PhaseCorpus    Phase = "corpus"
	PhaseDone      Phase = "done"
	PhaseCancelled Phase = "cancelled"
	PhaseError     Phase = "error"
)

// Progress is one event on the progress channel.
type Progress struct {
	Phase       Phase
	Current     int
	Total       int
	DisplayName string
	Percent     int
	Message     string
}
