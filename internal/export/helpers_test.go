package export

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vvka-141/imdix/internal/bundle"
	"github.com/vvka-141/imdix/internal/files/filesystem"
	"github.com/vvka-141/imdix/internal/logging"
	"github.com/vvka-141/imdix/internal/project"
	"github.com/vvka-141/imdix/internal/schema"
	"github.com/vvka-141/imdix/pkg/imdix"
)

var referenceDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

type acceptAll struct{}

func (acceptAll) Validate(context.Context, string) (schema.Result, error) {
	return schema.Result{Valid: true}, nil
}

// rejectContaining fails documents that contain text.
type rejectContaining string

func (r rejectContaining) Validate(_ context.Context, document string) (schema.Result, error) {
	if !strings.Contains(document, string(r)) {
		return schema.Result{Valid: true}, nil
	}
	result := schema.Result{}
	result.AddError(2, "Element 'Session': Missing child element(s).")
	return result, nil
}

// sessionCount sessions, each with one recording; S01's speaker has a
// consent form.
func projectFS(sessionCount int) *filesystem.Memory {
	m := filesystem.NewMemory()
	m.AddFile("/p/Edolo/Edolo.project", "title: Edolo Documentation\ncountry: Papua New Guinea\n")
	m.AddFile("/p/Edolo/People/Awi/Awi.person", "fullName: Awi Heole\n")
	m.AddFile("/p/Edolo/People/Awi/Awi_Consent.pdf", "consent form")
	m.AddFile("/p/Edolo/People/Awi/Awi_Consent.pdf.meta", "tags: [consent]\n")
	m.AddFile("/p/Edolo/OtherDocuments/map.png", "png")
	for i := 1; i <= sessionCount; i++ {
		id := fmt.Sprintf("S%02d", i)
		dir := "/p/Edolo/Sessions/" + id
		m.AddFile(dir+"/"+id+".session", "title: Session "+id+"\ndate: 2024-03-09\ncontributions:\n  - person: Awi\n    role: speaker\n")
		m.AddFile(dir+"/"+id+".wav", "recording "+id)
	}
	return m
}

func loadProject(t *testing.T, m *filesystem.Memory) *imdix.Project {
	t.Helper()
	p, err := project.NewReader(m, nil).Load("/p/Edolo")
	require.NoError(t, err)
	return p
}

func exportConfig() imdix.ExportConfig {
	return imdix.ExportConfig{
		ProjectPath:     "/p/Edolo",
		OutputRoot:      "/out",
		Mode:            imdix.ModeIMDI,
		Variant:         imdix.VariantIMDI,
		CopyFiles:       true,
		CopyConcurrency: 2,
	}
}

func newCoordinator(m *filesystem.Memory, fileCopier imdix.FileCopier, validator bundle.DocumentValidator) *Coordinator {
	return NewCoordinator(m, fileCopier, validator, logging.NewNullLogger()).WithReferenceDate(referenceDate)
}

// progressLog records progress events.
type progressLog struct {
	mu     sync.Mutex
	events []imdix.Progress
}

func (p *progressLog) record(e imdix.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *progressLog) phases() []imdix.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []imdix.Phase
	for _, e := range p.events {
		if len(out) == 0 || out[len(out)-1] != e.Phase {
			out = append(out, e.Phase)
		}
	}
	return out
}

func (p *progressLog) last() imdix.Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

// gatedCopier blocks every copy until release is closed and tracks how
// many run at once.
type gatedCopier struct {
	release chan struct{}

	mu       sync.Mutex
	inFlight int
	peak     int
	copied   []string
}

func (g *gatedCopier) Copy(ctx context.Context, src, dst string, onProgress func(int)) error {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.peak {
		g.peak = g.inFlight
	}
	g.mu.Unlock()

	<-g.release

	g.mu.Lock()
	g.inFlight--
	g.copied = append(g.copied, dst)
	g.mu.Unlock()
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}
